package util

import (
	"fmt"
	"hash/crc32"
	"io"
	"os"
)

// fingerprintTail is how much of the file end contributes to the
// fingerprint. Marketplace exports grow by appending, so the tail changes
// whenever new rows arrive.
const fingerprintTail = int64(2048)

// CalculateFileFingerprint returns a CRC32 over the last 2KB of the file,
// used to detect content changes the size/modtime check can miss.
func CalculateFileFingerprint(filepath string) (string, error) {
	file, err := os.Open(filepath)
	if err != nil {
		return "", err
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return "", err
	}

	readSize := fingerprintTail
	if stat.Size() < readSize {
		readSize = stat.Size()
	}
	if _, err := file.Seek(-readSize, io.SeekEnd); err != nil {
		return "", err
	}

	data := make([]byte, readSize)
	if _, err := io.ReadFull(file, data); err != nil {
		return "", err
	}

	return fmt.Sprintf("%08x", crc32.ChecksumIEEE(data)), nil
}
