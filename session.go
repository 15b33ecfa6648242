package b2session

// Session is everything returned by one account authorization.
type Session struct {
	AccountID        string
	ApplicationKeyID string
	ApplicationKey   string // secret part of the application key
	AuthToken        string
	APIURL           string
	DownloadURL      string
	MinimumPartSize  int64 // recommended part size for large files, in bytes
	Realm            string
	// Allowed may be nil when the caller has no descriptor; readers then get
	// DefaultAllowed.
	Allowed *Allowed
}

// Allowed describes what an auth token may do and where.
// Nil pointers mean "no restriction".
type Allowed struct {
	BucketID     *string  `json:"bucketId" cbor:"bucketId" msgpack:"bucketId"`
	BucketName   *string  `json:"bucketName" cbor:"bucketName" msgpack:"bucketName"`
	Capabilities []string `json:"capabilities" cbor:"capabilities" msgpack:"capabilities"`
	NamePrefix   *string  `json:"namePrefix" cbor:"namePrefix" msgpack:"namePrefix"`
}

// AllCapabilities are the capabilities granted by an unrestricted key.
var AllCapabilities = []string{
	"listKeys",
	"writeKeys",
	"deleteKeys",
	"listBuckets",
	"writeBuckets",
	"deleteBuckets",
	"listFiles",
	"readFiles",
	"shareFiles",
	"writeFiles",
	"deleteFiles",
}

// DefaultAllowed is returned when no descriptor was stored: every capability,
// no bucket or prefix restriction. Each call returns a fresh value.
func DefaultAllowed() Allowed {
	caps := make([]string, len(AllCapabilities))
	copy(caps, AllCapabilities)
	return Allowed{Capabilities: caps}
}

// Has reports whether capability c is granted.
func (a Allowed) Has(c string) bool {
	for _, got := range a.Capabilities {
		if got == c {
			return true
		}
	}
	return false
}

// Bucket is a named container and its stable id.
type Bucket struct {
	Name string
	ID   string
}
