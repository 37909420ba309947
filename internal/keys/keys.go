// Package keys generates the RSA keypair Snowflake requires for key-pair
// authentication: an encrypted PKCS#8 private key (rsa_key.p8) and a
// SubjectPublicKeyInfo public key (rsa_key.pub), both PEM-encoded.
package keys

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/youmark/pkcs8"
)

const (
	keySize = 2048

	// DefaultPassphrase matches the passphrase baked into the course
	// materials and the generated dbt profile.
	DefaultPassphrase = "q"

	PrivateKeyFile = "rsa_key.p8"
	PublicKeyFile  = "rsa_key.pub"
)

// KeyPair holds a generated keypair in the formats the rest of the tool
// needs.
type KeyPair struct {
	// PrivatePEM is the PKCS#8 private key, encrypted with Passphrase
	// (unencrypted when the passphrase is empty).
	PrivatePEM string
	// PublicPEM is the SubjectPublicKeyInfo public key.
	PublicPEM  string
	Passphrase string

	key *rsa.PrivateKey
}

// Generate creates a new 2048-bit RSA keypair. A non-empty passphrase
// encrypts the private key PEM.
func Generate(passphrase string) (*KeyPair, error) {
	key, err := rsa.GenerateKey(rand.Reader, keySize)
	if err != nil {
		return nil, fmt.Errorf("failed to generate RSA key: %w", err)
	}

	privatePEM, err := encodePrivateKey(key, passphrase)
	if err != nil {
		return nil, err
	}

	publicDER, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal public key: %w", err)
	}
	publicPEM := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: publicDER})

	return &KeyPair{
		PrivatePEM: privatePEM,
		PublicPEM:  string(publicPEM),
		Passphrase: passphrase,
		key:        key,
	}, nil
}

func encodePrivateKey(key *rsa.PrivateKey, passphrase string) (string, error) {
	if passphrase == "" {
		der, err := x509.MarshalPKCS8PrivateKey(key)
		if err != nil {
			return "", fmt.Errorf("failed to marshal private key: %w", err)
		}
		return string(pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der})), nil
	}

	der, err := pkcs8.MarshalPrivateKey(key, []byte(passphrase), nil)
	if err != nil {
		return "", fmt.Errorf("failed to encrypt private key: %w", err)
	}
	return string(pem.EncodeToMemory(&pem.Block{Type: "ENCRYPTED PRIVATE KEY", Bytes: der})), nil
}

// Private returns the raw RSA private key (used for key-pair auth when
// verifying the service user logins).
func (kp *KeyPair) Private() *rsa.PrivateKey {
	return kp.key
}

// PublicKeyBody returns the base64 body of the public key with the PEM
// delimiters and newlines stripped. This is the form Snowflake's
// ALTER USER ... SET RSA_PUBLIC_KEY expects.
func (kp *KeyPair) PublicKeyBody() string {
	body := kp.PublicPEM
	body = strings.ReplaceAll(body, "-----BEGIN PUBLIC KEY-----", "")
	body = strings.ReplaceAll(body, "-----END PUBLIC KEY-----", "")
	return strings.ReplaceAll(body, "\n", "")
}

// PrivateKeySingleLine returns the private key PEM with newlines escaped as
// literal \n, for embedding in YAML and JSON configuration.
func (kp *KeyPair) PrivateKeySingleLine() string {
	return strings.ReplaceAll(strings.TrimRight(kp.PrivatePEM, "\n"), "\n", `\n`)
}

// WriteFiles writes rsa_key.p8 and rsa_key.pub into dir and returns their
// paths. The private key file is only readable by the owner.
func (kp *KeyPair) WriteFiles(dir string) (privatePath, publicPath string, err error) {
	privatePath = filepath.Join(dir, PrivateKeyFile)
	publicPath = filepath.Join(dir, PublicKeyFile)

	if err := os.WriteFile(privatePath, []byte(kp.PrivatePEM), 0o600); err != nil {
		return "", "", fmt.Errorf("failed to write %s: %w", PrivateKeyFile, err)
	}
	if err := os.WriteFile(publicPath, []byte(kp.PublicPEM), 0o644); err != nil {
		return "", "", fmt.Errorf("failed to write %s: %w", PublicKeyFile, err)
	}
	return privatePath, publicPath, nil
}

// ParsePrivateKey loads an RSA private key from PEM, decrypting it with the
// passphrase when the key is an encrypted PKCS#8 container.
func ParsePrivateKey(pemData []byte, passphrase string) (*rsa.PrivateKey, error) {
	block, _ := pem.Decode(pemData)
	if block == nil {
		return nil, fmt.Errorf("no PEM block found in private key")
	}

	switch block.Type {
	case "ENCRYPTED PRIVATE KEY":
		key, err := pkcs8.ParsePKCS8PrivateKeyRSA(block.Bytes, []byte(passphrase))
		if err != nil {
			return nil, fmt.Errorf("failed to decrypt private key: %w", err)
		}
		return key, nil
	case "PRIVATE KEY":
		parsed, err := x509.ParsePKCS8PrivateKey(block.Bytes)
		if err != nil {
			return nil, fmt.Errorf("failed to parse private key: %w", err)
		}
		key, ok := parsed.(*rsa.PrivateKey)
		if !ok {
			return nil, fmt.Errorf("private key is not RSA")
		}
		return key, nil
	default:
		return nil, fmt.Errorf("unexpected PEM block type %q", block.Type)
	}
}

// LoadPrivateKeyFile reads and parses a private key file.
func LoadPrivateKeyFile(path, passphrase string) (*rsa.PrivateKey, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read private key: %w", err)
	}
	return ParsePrivateKey(data, passphrase)
}
