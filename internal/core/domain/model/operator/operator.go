package operator

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"ordertracking/internal/pkg/errs"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrOperatorIsNotConstructed = errors.New("Operator must be created via NewOperator constructor")

	credentialPattern = regexp.MustCompile(`^\d{4,8}$`)
)

// Operator is a person (or the system) that records movements.
//
// The credential code is a short numeric PIN shared by the terminals of one
// sector. Only its bcrypt hash is kept.
type Operator struct {
	id             int64
	name           string
	role           Role
	active         bool
	credentialHash []byte

	isConstructed bool
}

// NewOperator hashes the credential code and returns an active operator.
// An empty code is accepted only for the System role, which never authenticates.
func NewOperator(id int64, name string, role Role, credentialCode string) (*Operator, error) {
	var hash []byte
	if credentialCode != "" || role != System {
		if !credentialPattern.MatchString(credentialCode) {
			return nil, errs.NewValueIsInvalidErrorWithCause("credential code", errors.New("must be 4 to 8 digits"))
		}
		var err error
		hash, err = bcrypt.GenerateFromPassword([]byte(credentialCode), bcrypt.DefaultCost)
		if err != nil {
			return nil, errs.NewValueIsInvalidErrorWithCause("credential code", err)
		}
	}
	return RestoreOperator(id, name, role, true, hash)
}

// RestoreOperator rebuilds a persisted operator from its stored hash.
func RestoreOperator(id int64, name string, role Role, active bool, credentialHash []byte) (*Operator, error) {
	o := &Operator{
		active:         active,
		credentialHash: credentialHash,
		isConstructed:  true,
	}
	if err := errors.Join(o.setID(id), o.setName(name), role.Validate()); err != nil {
		return nil, err
	}
	o.role = role
	return o, nil
}

func (o *Operator) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOperatorIsNotConstructed
	}
	return nil
}

func (o *Operator) ID() int64 {
	return o.id
}

func (o *Operator) Name() string {
	return o.name
}

func (o *Operator) Role() Role {
	return o.role
}

func (o *Operator) IsActive() bool {
	return o.active
}

func (o *Operator) CredentialHash() []byte {
	return o.credentialHash
}

// MatchesCredential compares a code against the stored hash. Operators without
// a hash never match.
func (o *Operator) MatchesCredential(code string) bool {
	if len(o.credentialHash) == 0 || code == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword(o.credentialHash, []byte(code)) == nil
}

func (o *Operator) Deactivate() {
	o.active = false
}

func (o *Operator) setID(id int64) error {
	if id <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("operator id", fmt.Errorf("%d is not greater than 0", id))
	}
	o.id = id
	return nil
}

func (o *Operator) setName(name string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return errs.NewValueIsRequiredError("operator name")
	}
	o.name = trimmed
	return nil
}
