package classfile

import (
	"github.com/minio/highwayhash"
)

var fingerprintKey = []byte("classgraph/fingerprint/key/v1...")

// Fingerprint hashes the raw bytes of a class file. Two definitions of the
// same class name with different fingerprints are different classes.
func Fingerprint(data []byte) (uint64, error) {
	hash, err := highwayhash.New64(fingerprintKey)
	if err != nil {
		return 0, err
	}
	_, err = hash.Write(data)
	return hash.Sum64(), err
}
