package util

import (
	"crypto/md5"
	"encoding/hex"
	"io"
	"os"

	"github.com/pkg/errors"
)

// MD5File returns the hex md5 digest and the size of a resource file, used
// to identify the exact file a model was loaded from
func MD5File(fileName string) (string, int64, error) {
	file, err := os.Open(fileName)
	if err != nil {
		return "", 0, errors.Wrap(err, "fingerprinting resource")
	}
	defer file.Close()

	hash := md5.New()
	size, err := io.Copy(hash, file)
	if err != nil {
		return "", 0, errors.Wrapf(err, "fingerprinting %s", fileName)
	}
	return hex.EncodeToString(hash.Sum(nil)), size, nil
}
