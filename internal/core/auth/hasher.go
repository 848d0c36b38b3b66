package auth

import "profile-service/pkg/utils"

type Hasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, digest string) bool
}

// BcryptHasher uses bcrypt.DefaultCost when Cost is zero.
type BcryptHasher struct {
	Cost int
}

func (h BcryptHasher) Hash(plaintext string) (string, error) {
	return utils.HashPassword(plaintext, h.Cost)
}

func (h BcryptHasher) Verify(plaintext, digest string) bool {
	return utils.CheckPassword(plaintext, digest)
}
