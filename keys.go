package b2session

// Field is the logical name of a stored item, independent of any prefix.
type Field string

const (
	FieldAccountID        Field = "account-id"
	FieldApplicationKeyID Field = "application-key-id"
	FieldAllowed          Field = "allowed"
	FieldAPIURL           Field = "api-url"
	FieldApplicationKey   Field = "application-key"
	FieldAuthToken        Field = "auth-token"
	FieldBucketMap        Field = "bucket-map"
	FieldDownloadURL      Field = "download-url"
	FieldMinimumPartSize  Field = "min-part-size"
	FieldRealm            Field = "realm"
)

// sessionFields are written together by SetSession.
var sessionFields = [...]Field{
	FieldAccountID,
	FieldApplicationKeyID,
	FieldAllowed,
	FieldAPIURL,
	FieldApplicationKey,
	FieldAuthToken,
	FieldDownloadURL,
	FieldMinimumPartSize,
	FieldRealm,
}

// LogicalNames returns every logical name a Store may write.
func LogicalNames() []Field {
	out := make([]Field, 0, len(sessionFields)+1)
	out = append(out, sessionFields[:]...)
	return append(out, FieldBucketMap)
}

func isSessionField(f Field) bool {
	for _, sf := range sessionFields {
		if sf == f {
			return true
		}
	}
	return false
}

// Keyspace maps logical names to physical keys under one immutable prefix.
// The zero value is not usable; construct with NewKeyspace.
type Keyspace struct {
	prefix string
	keys   map[Field]string
	all    []string
}

// NewKeyspace validates the prefix and precomputes every physical key.
// An empty prefix selects DefaultPrefix.
func NewKeyspace(prefix string) (Keyspace, error) {
	p, err := normalizePrefix(prefix)
	if err != nil {
		return Keyspace{}, err
	}
	names := LogicalNames()
	ks := Keyspace{
		prefix: p,
		keys:   make(map[Field]string, len(names)),
		all:    make([]string, 0, len(names)),
	}
	for _, f := range names {
		k := p + string(f)
		ks.keys[f] = k
		ks.all = append(ks.all, k)
	}
	return ks, nil
}

func (k Keyspace) Prefix() string { return k.prefix }

// Key returns prefix + logical name.
func (k Keyspace) Key(f Field) string {
	if pk, ok := k.keys[f]; ok {
		return pk
	}
	return k.prefix + string(f)
}

func (k Keyspace) BucketMapKey() string { return k.keys[FieldBucketMap] }

// AllKeys returns a copy of the closed key set (session fields + bucket map).
func (k Keyspace) AllKeys() []string {
	out := make([]string, len(k.all))
	copy(out, k.all)
	return out
}
