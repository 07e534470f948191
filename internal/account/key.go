package account

import (
	"crypto/ed25519"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

// Key — приватный ключ одного аккаунта.
//
// Ключ владеется своей задачей на всё время её жизни и передаётся
// подписи транзакций по ссылке. Секретный материал не экспортируется:
// наружу видны только адрес и подпись.
type Key struct {
	priv ed25519.PrivateKey
	addr string
}

// ParseKey парсит hex-кодированный 32-байтовый seed.
func ParseKey(s string) (*Key, error) {
	seed, err := hex.DecodeString(strings.TrimPrefix(strings.TrimSpace(s), "0x"))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedKey, err)
	}
	if len(seed) != ed25519.SeedSize {
		return nil, fmt.Errorf("%w: expected %d bytes, got %d", ErrMalformedKey, ed25519.SeedSize, len(seed))
	}

	priv := ed25519.NewKeyFromSeed(seed)
	return &Key{
		priv: priv,
		addr: deriveAddress(priv.Public().(ed25519.PublicKey)),
	}, nil
}

// deriveAddress строит адрес из публичного ключа:
// 0x + первые 20 байт sha256(pubkey).
func deriveAddress(pub ed25519.PublicKey) string {
	sum := sha256.Sum256(pub)
	return "0x" + hex.EncodeToString(sum[:20])
}

// Address возвращает адрес аккаунта.
func (k *Key) Address() string {
	return k.addr
}

// PublicKey возвращает hex-кодированный публичный ключ.
func (k *Key) PublicKey() string {
	return hex.EncodeToString(k.priv.Public().(ed25519.PublicKey))
}

// Sign подписывает сообщение приватным ключом.
func (k *Key) Sign(msg []byte) []byte {
	return ed25519.Sign(k.priv, msg)
}

// String возвращает адрес. Секретный материал в логи не попадает.
func (k *Key) String() string {
	return k.addr
}
