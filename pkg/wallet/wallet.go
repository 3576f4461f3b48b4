// Package wallet implements ed25519 key pairs addressed by the base58
// encoding of their public key, persisted as password-encrypted keystore
// files.
package wallet

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/ed25519"
	"crypto/rand"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/crypto/scrypt"

	"github.com/stakenet/snd/pkg/core/types"
)

const (
	saltSize        = 16
	nonceSize       = 12
	scryptN         = 1 << 15
	scryptR         = 8
	scryptP         = 1
	derivedKeyBytes = 32
)

// Wallet is an ed25519 key pair whose address is the base58 encoding of its
// public key.
type Wallet struct {
	Priv ed25519.PrivateKey
}

// New generates a fresh wallet.
func New() (*Wallet, error) {
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, err
	}
	return &Wallet{Priv: priv}, nil
}

// FromSeed rebuilds a wallet from its 32-byte ed25519 seed.
func FromSeed(seed []byte) (*Wallet, error) {
	if len(seed) != ed25519.SeedSize {
		return nil, fmt.Errorf("invalid seed length: %d", len(seed))
	}
	return &Wallet{Priv: ed25519.NewKeyFromSeed(seed)}, nil
}

// Address is this wallet's base58 public-key address.
func (w *Wallet) Address() string {
	pub := w.Priv.Public().(ed25519.PublicKey)
	return types.EncodeBase58(pub)
}

// Seed returns the wallet's 32-byte ed25519 seed.
func (w *Wallet) Seed() []byte {
	return w.Priv.Seed()
}

// Write persists the wallet's seed into dir/<address>, encrypted under
// password. The directory is created if it doesn't exist.
func (w *Wallet) Write(dir string, password []byte) error {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	salt := make([]byte, saltSize)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return err
	}
	key, err := deriveKey(salt, password)
	if err != nil {
		return err
	}

	nonce := make([]byte, nonceSize)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return err
	}
	ciphertext, err := encrypt(key, nonce, w.Seed())
	if err != nil {
		return err
	}

	path := filepath.Join(dir, w.Address())
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.Write(salt); err != nil {
		return err
	}
	if _, err := f.Write(nonce); err != nil {
		return err
	}
	_, err = f.Write(ciphertext)
	return err
}

// Read loads and decrypts the wallet stored at dir/<address> under
// password.
func Read(dir, address string, password []byte) (*Wallet, error) {
	data, err := os.ReadFile(filepath.Join(dir, address))
	if err != nil {
		return nil, err
	}
	if len(data) < saltSize+nonceSize {
		return nil, fmt.Errorf("keystore file %s is truncated", address)
	}

	salt := data[:saltSize]
	nonce := data[saltSize : saltSize+nonceSize]
	ciphertext := data[saltSize+nonceSize:]

	key, err := deriveKey(salt, password)
	if err != nil {
		return nil, err
	}
	seed, err := decrypt(key, nonce, ciphertext)
	if err != nil {
		return nil, fmt.Errorf("wrong password or corrupted keystore: %w", err)
	}
	return FromSeed(seed)
}

func deriveKey(salt, password []byte) ([]byte, error) {
	return scrypt.Key(password, salt, scryptN, scryptR, scryptP, derivedKeyBytes)
}

func encrypt(key, nonce, plaintext []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCMWithNonceSize(block, nonceSize)
	if err != nil {
		return nil, err
	}
	return gcm.Seal(nil, nonce, plaintext, nil), nil
}

func decrypt(key, nonce, ciphertext []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCMWithNonceSize(block, nonceSize)
	if err != nil {
		return nil, err
	}
	return gcm.Open(nil, nonce, ciphertext, nil)
}
