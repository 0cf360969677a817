package hash

import "golang.org/x/crypto/bcrypt"

// Hasher wraps bcrypt with a configurable cost so the work factor can be
// tuned without a rebuild.
type Hasher struct {
	cost int
}

func NewHasher(cost int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Hasher{cost: cost}
}

func (h *Hasher) Hash(password string) (string, error) {
	hashBytes, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(hashBytes), nil
}

// Check reports whether password matches the stored hash. A malformed
// stored hash yields false, never an error.
func (h *Hasher) Check(hashed, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(password)) == nil
}
