package wallet

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gatewaybot/internal/domain"
)

func TestEncryptDecrypt_RoundTrip(t *testing.T) {
	key := solana.NewWallet().PrivateKey

	blob, err := EncryptKey(key.String(), "correct horse")
	require.NoError(t, err)

	got, err := DecryptKey(blob, "correct horse")
	require.NoError(t, err)
	assert.Equal(t, key.String(), got.String())
}

func TestDecrypt_WrongPassword(t *testing.T) {
	key := solana.NewWallet().PrivateKey

	blob, err := EncryptKey(key.String(), "right")
	require.NoError(t, err)

	_, err = DecryptKey(blob, "wrong")
	assert.ErrorContains(t, err, "decryption failed")
}

func TestEncrypt_RejectsEmptyPasswordAndBadKey(t *testing.T) {
	_, err := EncryptKey(solana.NewWallet().PrivateKey.String(), "")
	assert.ErrorContains(t, err, "password must not be empty")

	_, err = EncryptKey("not-base58-0OIl", "pw")
	assert.ErrorContains(t, err, "invalid base58")
}

func TestDecrypt_UnsupportedVersion(t *testing.T) {
	_, err := DecryptKey([]byte(`{"version":99,"salt":"","nonce":"","ciphertext":""}`), "pw")
	assert.ErrorContains(t, err, "unsupported version")
}

func TestLoadKey_Raw(t *testing.T) {
	key := solana.NewWallet().PrivateKey

	got, err := LoadKey(KeyConfig{RawPrivateKey: key.String()})
	require.NoError(t, err)
	assert.Equal(t, key.String(), got.String())
}

func TestLoadKey_PlaceholderRejected(t *testing.T) {
	_, err := LoadKey(KeyConfig{RawPrivateKey: "your_base58_private_key_here"})
	assert.ErrorIs(t, err, domain.ErrMissingSigningKey)
}

func TestLoadKey_EncryptedFile(t *testing.T) {
	key := solana.NewWallet().PrivateKey

	blob, err := EncryptKey(key.String(), "pw")
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "wallet.json")
	require.NoError(t, os.WriteFile(path, blob, 0o600))

	got, err := LoadKey(KeyConfig{EncryptedKeyPath: path, KeyPassword: "pw"})
	require.NoError(t, err)
	assert.Equal(t, key.String(), got.String())
}

func TestLoadKey_Unconfigured(t *testing.T) {
	_, err := LoadKey(KeyConfig{})
	assert.ErrorIs(t, err, domain.ErrMissingSigningKey)
}
