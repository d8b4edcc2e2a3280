package entities

// ChecksumSHA512 is the only digest algorithm descriptors carry.
const ChecksumSHA512 = "sha512"

// Checksum is a hex digest computed over a downloaded archive.
type Checksum struct {
	Algorithm string
	Digest    string
}

func (c Checksum) String() string { return c.Digest }

// Artifact is a release archive stored on local disk.
type Artifact struct {
	URL      string
	Path     string
	Size     int64
	Checksum Checksum
}
