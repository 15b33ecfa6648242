package app

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/unkn0wn-root/b2session"
)

func newShowCommand(a *App) *cobra.Command {
	var reveal bool
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()
			s := a.store

			rows := []struct {
				label  string
				get    func() (string, error)
				secret bool
			}{
				{"account id", func() (string, error) { return s.AccountID(ctx) }, false},
				{"application key id", func() (string, error) { return s.ApplicationKeyID(ctx) }, false},
				{"application key", func() (string, error) { return s.ApplicationKey(ctx) }, true},
				{"auth token", func() (string, error) { return s.AuthToken(ctx) }, true},
				{"api url", func() (string, error) { return s.APIURL(ctx) }, false},
				{"download url", func() (string, error) { return s.DownloadURL(ctx) }, false},
				{"realm", func() (string, error) { return s.Realm(ctx) }, false},
			}

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			for _, r := range rows {
				v, err := r.get()
				if errors.Is(err, b2session.ErrMissingData) {
					fmt.Fprintf(out, "no session stored under %q\n", s.Prefix())
					return nil
				}
				if err != nil {
					return err
				}
				if r.secret && !reveal {
					v = mask(v)
				}
				fmt.Fprintf(tw, "%s\t%s\n", r.label, v)
			}
			mps, err := s.MinimumPartSize(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(tw, "minimum part size\t%d\n", mps)

			allowed, err := s.Allowed(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(tw, "capabilities\t%s\n", strings.Join(allowed.Capabilities, ","))
			if allowed.BucketName != nil {
				fmt.Fprintf(tw, "restricted to bucket\t%s\n", *allowed.BucketName)
			}
			if allowed.NamePrefix != nil {
				fmt.Fprintf(tw, "restricted to prefix\t%s\n", *allowed.NamePrefix)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().BoolVar(&reveal, "reveal", false, "Print secrets in full.")
	return cmd
}

func mask(s string) string {
	if len(s) <= 6 {
		return strings.Repeat("*", len(s))
	}
	return s[:6] + strings.Repeat("*", len(s)-6)
}

func newClearCommand(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete the session and bucket cache under the prefix",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.store.Clear(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "cleared %q\n", a.store.Prefix())
			return nil
		},
	}
}

// authorization mirrors the account authorization response plus the key
// used to obtain it.
type authorization struct {
	AccountID           string             `json:"accountId"`
	ApplicationKeyID    string             `json:"applicationKeyId"`
	ApplicationKey      string             `json:"applicationKey"`
	AuthorizationToken  string             `json:"authorizationToken"`
	APIURL              string             `json:"apiUrl"`
	DownloadURL         string             `json:"downloadUrl"`
	RecommendedPartSize int64              `json:"recommendedPartSize"`
	Realm               string             `json:"realm"`
	Allowed             *b2session.Allowed `json:"allowed"`
}

func (r authorization) session() b2session.Session {
	realm := r.Realm
	if realm == "" {
		realm = "production"
	}
	return b2session.Session{
		AccountID:        r.AccountID,
		ApplicationKeyID: r.ApplicationKeyID,
		ApplicationKey:   r.ApplicationKey,
		AuthToken:        r.AuthorizationToken,
		APIURL:           r.APIURL,
		DownloadURL:      r.DownloadURL,
		MinimumPartSize:  r.RecommendedPartSize,
		Realm:            realm,
		Allowed:          r.Allowed,
	}
}

func newImportCommand(a *App) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Store a session from an authorization JSON document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var r io.Reader = cmd.InOrStdin()
			if file != "" && file != "-" {
				f, err := os.Open(file)
				if err != nil {
					return err
				}
				defer f.Close()
				r = f
			}
			var auth authorization
			dec := json.NewDecoder(r)
			dec.DisallowUnknownFields()
			if err := dec.Decode(&auth); err != nil {
				return fmt.Errorf("decode authorization: %w", err)
			}
			if auth.AccountID == "" || auth.AuthorizationToken == "" || auth.APIURL == "" {
				return errors.New("authorization must include accountId, authorizationToken and apiUrl")
			}
			if err := a.store.SetSession(cmd.Context(), auth.session()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "stored session for account %s\n", auth.AccountID)
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "-", "Authorization JSON file; - reads stdin.")
	return cmd
}

func newBucketsCommand(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "buckets",
		Short: "Maintain the bucket name cache",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List cached bucket names and ids",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			m, err := a.store.BucketNameCache(cmd.Context())
			if err != nil {
				return err
			}
			names := make([]string, 0, len(m))
			for n := range m {
				names = append(names, n)
			}
			sort.Strings(names)
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, n := range names {
				fmt.Fprintf(tw, "%s\t%s\n", n, m[n])
			}
			return tw.Flush()
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "lookup NAME",
		Short: "Print the cached id for a bucket name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, ok, err := a.store.LookupBucketID(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("bucket %q is not cached", args[0])
			}
			fmt.Fprintln(cmd.OutOrStdout(), id)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "put NAME ID",
		Short: "Cache a bucket name -> id mapping",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			created, err := a.store.PutBucket(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			verb := "updated"
			if created {
				verb = "added"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", verb, args[0])
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "replace [NAME=ID ...]",
		Short: "Replace the whole cache; no arguments empties it",
		RunE: func(cmd *cobra.Command, args []string) error {
			buckets := make([]b2session.Bucket, 0, len(args))
			for _, arg := range args {
				name, id, ok := strings.Cut(arg, "=")
				if !ok || name == "" || id == "" {
					return fmt.Errorf("expected NAME=ID, got %q", arg)
				}
				buckets = append(buckets, b2session.Bucket{Name: name, ID: id})
			}
			if err := a.store.ReplaceBucketCache(cmd.Context(), buckets); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "cached %d buckets\n", len(buckets))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "rm NAME",
		Short: "Drop a bucket from the cache",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			removed, err := a.store.RemoveBucket(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if !removed {
				fmt.Fprintf(cmd.OutOrStdout(), "%s was not cached\n", args[0])
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed %s\n", args[0])
			return nil
		},
	})
	return cmd
}
