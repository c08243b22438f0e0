package qr

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"

	"github.com/skip2/go-qrcode"

	"meetup-service/internal/models"
)

// Payload is what a door scanner recovers from an RSVP check-in code.
type Payload struct {
	RsvpID  string `json:"rsvp_id"`
	EventID string `json:"event_id"`
	Name    string `json:"name"`
}

// Generator produces QR PNGs carrying an AES-encrypted RSVP payload, so a
// code can't be forged by hand.
type Generator struct {
	secret []byte
}

func NewGenerator(secret string) *Generator {
	hashed := sha256.Sum256([]byte(secret)) // normalize to 32 bytes
	return &Generator{secret: hashed[:]}
}

// GenerateEncryptedQR returns a 256x256 PNG encoding the encrypted payload.
func (g *Generator) GenerateEncryptedQR(rsvp models.Rsvp) ([]byte, error) {
	data, err := json.Marshal(Payload{
		RsvpID:  rsvp.ID,
		EventID: rsvp.EventID,
		Name:    rsvp.Name,
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

// DecryptPayload recovers the payload from a scanned QR string.
func (g *Generator) DecryptPayload(encrypted string) (*Payload, error) {
	data, err := decryptAES(encrypted, g.secret)
	if err != nil {
		return nil, err
	}
	var payload Payload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// EncryptPayload is the string form embedded in the QR image, exposed for
// scanner round-trips.
func (g *Generator) EncryptPayload(rsvp models.Rsvp) (string, error) {
	data, err := json.Marshal(Payload{
		RsvpID:  rsvp.ID,
		EventID: rsvp.EventID,
		Name:    rsvp.Name,
	})
	if err != nil {
		return "", err
	}
	return encryptAES(data, g.secret)
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

func decryptAES(encoded string, key []byte) ([]byte, error) {
	ciphertext, err := base64.URLEncoding.DecodeString(encoded)
	if err != nil {
		return nil, err
	}
	if len(ciphertext) < aes.BlockSize {
		return nil, errors.New("ciphertext too short")
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	iv := ciphertext[:aes.BlockSize]
	data := make([]byte, len(ciphertext)-aes.BlockSize)

	stream := cipher.NewCFBDecrypter(block, iv)
	stream.XORKeyStream(data, ciphertext[aes.BlockSize:])

	return data, nil
}
