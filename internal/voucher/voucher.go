package voucher

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"io"
	"ms-booking/internal/models"

	"github.com/skip2/go-qrcode"
)

// Generator issues the QR voucher attached to a confirmed booking. The
// payload is AES-encrypted so the voucher can be verified at the venue
// without exposing member data.
type Generator struct {
	secret []byte
}

func NewGenerator(secret string) *Generator {
	hashed := sha256.Sum256([]byte(secret)) // normalize to 32 bytes
	return &Generator{secret: hashed[:]}
}

type payload struct {
	BookingID        string `json:"bookingId"`
	UserID           string `json:"userId"`
	ActivityID       string `json:"activityId"`
	ActivityCategory string `json:"activityCategory"`
	PeriodStart      string `json:"periodStart"`
	PeriodEnd        string `json:"periodEnd"`
}

// GenerateEncryptedQR renders the booking summary as an encrypted QR PNG.
func (g *Generator) GenerateEncryptedQR(booking models.Booking) ([]byte, error) {
	data, err := json.Marshal(payload{
		BookingID:        booking.ID,
		UserID:           booking.UserID,
		ActivityID:       booking.ActivityID,
		ActivityCategory: booking.ActivityCategory,
		PeriodStart:      booking.PeriodStart.Format("2006-01-02"),
		PeriodEnd:        booking.PeriodEnd.Format("2006-01-02"),
	})
	if err != nil {
		return nil, err
	}

	encrypted, err := encryptAES(data, g.secret)
	if err != nil {
		return nil, err
	}

	return qrcode.Encode(encrypted, qrcode.Medium, 256)
}

func encryptAES(data []byte, key []byte) (string, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return "", err
	}

	ciphertext := make([]byte, aes.BlockSize+len(data))
	iv := ciphertext[:aes.BlockSize]

	if _, err := io.ReadFull(rand.Reader, iv); err != nil {
		return "", err
	}

	stream := cipher.NewCFBEncrypter(block, iv)
	stream.XORKeyStream(ciphertext[aes.BlockSize:], data)

	return base64.URLEncoding.EncodeToString(ciphertext), nil
}
