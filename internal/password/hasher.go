package password

import "github.com/alexedwards/argon2id"

// Hasher is the one-way credential hash applied to stored passwords. Every
// Hash call salts freshly, so two hashes of the same password differ.
type Hasher interface {
	Hash(password string) (string, error)
	Verify(password, digest string) (bool, error)
}

type Argon2Hasher struct {
	params *argon2id.Params
}

func NewArgon2Hasher() *Argon2Hasher {
	return &Argon2Hasher{params: argon2id.DefaultParams}
}

func (h *Argon2Hasher) Hash(password string) (string, error) {
	return argon2id.CreateHash(password, h.params)
}

func (h *Argon2Hasher) Verify(password, digest string) (bool, error) {
	return argon2id.ComparePasswordAndHash(password, digest)
}
