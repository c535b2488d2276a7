package cryptkeeper

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
)

// Service errors.
var (
	ErrInvalidKeySize   = errors.New("invalid key size")
	ErrCiphertextShort  = errors.New("ciphertext too short")
	ErrDecryptionFailed = errors.New("decryption failed")
)

// Service is the contract the container directive's service expression must
// satisfy. Generated methods call it once per transformed field, in field
// declaration order, and propagate the first failure.
//
// Implementations define their own blocking and retry semantics; generated
// code imposes none. The empty string is never passed in: generated methods
// treat "" as "no data" and skip the call entirely.
type Service interface {
	// Encrypt encrypts plaintext and returns ciphertext.
	Encrypt(plaintext string) (string, error)

	// Decrypt decrypts ciphertext and returns plaintext.
	Decrypt(ciphertext string) (string, error)
}

// aesService implements AES-GCM encryption over strings.
// Ciphertext is base64-encoded with the nonce prepended.
type aesService struct {
	gcm cipher.AEAD
}

// AES returns an AES-GCM Service.
// Key must be 16, 24, or 32 bytes for AES-128, AES-192, or AES-256.
func AES(key []byte) (Service, error) {
	if len(key) != 16 && len(key) != 24 && len(key) != 32 {
		return nil, fmt.Errorf("%w: must be 16, 24, or 32 bytes, got %d", ErrInvalidKeySize, len(key))
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	return &aesService{gcm: gcm}, nil
}

func (s *aesService) Encrypt(plaintext string) (string, error) {
	nonce := make([]byte, s.gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}

	// Prepend nonce to ciphertext
	sealed := s.gcm.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

func (s *aesService) Decrypt(ciphertext string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrDecryptionFailed, err)
	}

	nonceSize := s.gcm.NonceSize()
	if len(raw) < nonceSize {
		return "", ErrCiphertextShort
	}

	nonce, sealed := raw[:nonceSize], raw[nonceSize:]
	plaintext, err := s.gcm.Open(nil, nonce, sealed, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrDecryptionFailed, err)
	}

	return string(plaintext), nil
}

// envelopeService implements envelope encryption.
// A random data key is generated per operation, encrypted with the master
// key, and prepended to the ciphertext.
type envelopeService struct {
	masterGCM   cipher.AEAD
	dataKeySize int
}

// Envelope returns an envelope-encryption Service using a master key.
// Master key must be 16, 24, or 32 bytes.
func Envelope(masterKey []byte) (Service, error) {
	if len(masterKey) != 16 && len(masterKey) != 24 && len(masterKey) != 32 {
		return nil, fmt.Errorf("%w: must be 16, 24, or 32 bytes, got %d", ErrInvalidKeySize, len(masterKey))
	}

	block, err := aes.NewCipher(masterKey)
	if err != nil {
		return nil, err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	return &envelopeService{
		masterGCM:   gcm,
		dataKeySize: 32, // AES-256 data keys
	}, nil
}

func (s *envelopeService) Encrypt(plaintext string) (string, error) {
	// Generate random data key
	dataKey := make([]byte, s.dataKeySize)
	if _, err := io.ReadFull(rand.Reader, dataKey); err != nil {
		return "", err
	}

	// Encrypt plaintext with data key
	dataBlock, err := aes.NewCipher(dataKey)
	if err != nil {
		return "", err
	}

	dataGCM, err := cipher.NewGCM(dataBlock)
	if err != nil {
		return "", err
	}

	dataNonce := make([]byte, dataGCM.NonceSize())
	if _, err := io.ReadFull(rand.Reader, dataNonce); err != nil {
		return "", err
	}

	encryptedData := dataGCM.Seal(dataNonce, dataNonce, []byte(plaintext), nil)

	// Encrypt data key with master key
	masterNonce := make([]byte, s.masterGCM.NonceSize())
	if _, err := io.ReadFull(rand.Reader, masterNonce); err != nil {
		return "", err
	}

	encryptedKey := s.masterGCM.Seal(masterNonce, masterNonce, dataKey, nil)

	// Format: [2 bytes key len][encrypted key][encrypted data]
	if len(encryptedKey) > 65535 {
		return "", errors.New("encrypted key exceeds maximum length")
	}
	keyLen := uint16(len(encryptedKey)) // #nosec G115 -- bounds checked above
	result := make([]byte, 2+len(encryptedKey)+len(encryptedData))
	result[0] = byte(keyLen >> 8)
	result[1] = byte(keyLen)
	copy(result[2:], encryptedKey)
	copy(result[2+len(encryptedKey):], encryptedData)

	return base64.StdEncoding.EncodeToString(result), nil
}

func (s *envelopeService) Decrypt(ciphertext string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrDecryptionFailed, err)
	}

	if len(raw) < 2 {
		return "", ErrCiphertextShort
	}

	// Parse key length
	keyLen := int(uint16(raw[0])<<8 | uint16(raw[1]))
	if len(raw) < 2+keyLen {
		return "", ErrCiphertextShort
	}

	encryptedKey := raw[2 : 2+keyLen]
	encryptedData := raw[2+keyLen:]

	// Decrypt data key with master key
	masterNonceSize := s.masterGCM.NonceSize()
	if len(encryptedKey) < masterNonceSize {
		return "", ErrCiphertextShort
	}

	masterNonce := encryptedKey[:masterNonceSize]
	encryptedKey = encryptedKey[masterNonceSize:]

	dataKey, err := s.masterGCM.Open(nil, masterNonce, encryptedKey, nil)
	if err != nil {
		return "", fmt.Errorf("%w: failed to decrypt data key: %w", ErrDecryptionFailed, err)
	}

	// Decrypt data with data key
	dataBlock, err := aes.NewCipher(dataKey)
	if err != nil {
		return "", err
	}

	dataGCM, err := cipher.NewGCM(dataBlock)
	if err != nil {
		return "", err
	}

	dataNonceSize := dataGCM.NonceSize()
	if len(encryptedData) < dataNonceSize {
		return "", ErrCiphertextShort
	}

	dataNonce := encryptedData[:dataNonceSize]
	encryptedData = encryptedData[dataNonceSize:]

	plaintext, err := dataGCM.Open(nil, dataNonce, encryptedData, nil)
	if err != nil {
		return "", fmt.Errorf("%w: failed to decrypt data: %w", ErrDecryptionFailed, err)
	}

	return string(plaintext), nil
}
