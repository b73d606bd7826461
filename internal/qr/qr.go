package qr

import (
	"errors"
	"fmt"
	"strings"

	qrcode "github.com/skip2/go-qrcode"
)

// ErrEmptyData rejects QR payloads that are empty after trimming.
var ErrEmptyData = errors.New("qr data cannot be empty")

const imageSize = 256

// Generate renders data as a PNG QR code with low error correction.
func Generate(data string) ([]byte, error) {
	data = strings.TrimSpace(data)
	if data == "" {
		return nil, ErrEmptyData
	}

	png, err := qrcode.Encode(data, qrcode.Low, imageSize)
	if err != nil {
		return nil, fmt.Errorf("encode qr code: %w", err)
	}
	return png, nil
}

// LoginURL builds the link embedded in a login QR code.
func LoginURL(baseURL string, userID uint) string {
	return fmt.Sprintf("%s/api/auth/qr-login?userId=%d", strings.TrimRight(baseURL, "/"), userID)
}
