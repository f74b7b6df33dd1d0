package types

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alphabill-org/feecharging/internal/errors"
)

type (
	// AccountID identifies an account as shard.realm.num.
	AccountID struct {
		_     struct{} `cbor:",toarray"`
		Shard int64
		Realm int64
		Num   int64
	}

	FileID struct {
		_     struct{} `cbor:",toarray"`
		Shard int64
		Realm int64
		Num   int64
	}

	ContractID struct {
		_     struct{} `cbor:",toarray"`
		Shard int64
		Realm int64
		Num   int64
	}

	TopicID struct {
		_     struct{} `cbor:",toarray"`
		Shard int64
		Realm int64
		Num   int64
	}

	// Key is an opaque public key (or key structure) controlling an account.
	Key []byte
)

// Account returns id of the account with number num in shard 0, realm 0.
func Account(num int64) AccountID {
	return AccountID{Num: num}
}

// ParseAccountID parses "shard.realm.num" literal.
func ParseAccountID(s string) (AccountID, error) {
	parts := strings.Split(strings.TrimSpace(s), ".")
	if len(parts) != 3 {
		return AccountID{}, errors.Wrapf(errors.ErrInvalidArgument, "account id %q is not in shard.realm.num form", s)
	}
	var nums [3]int64
	for i, p := range parts {
		n, err := strconv.ParseInt(p, 10, 64)
		if err != nil || n < 0 {
			return AccountID{}, errors.Wrapf(errors.ErrInvalidArgument, "account id %q has invalid component %q", s, p)
		}
		nums[i] = n
	}
	return AccountID{Shard: nums[0], Realm: nums[1], Num: nums[2]}, nil
}

// Compare orders account ids by shard, realm and number. Returns -1, 0 or 1.
func (id AccountID) Compare(other AccountID) int {
	switch {
	case id.Shard != other.Shard:
		return cmpInt64(id.Shard, other.Shard)
	case id.Realm != other.Realm:
		return cmpInt64(id.Realm, other.Realm)
	default:
		return cmpInt64(id.Num, other.Num)
	}
}

func (id AccountID) Eq(other AccountID) bool {
	return id.Compare(other) == 0
}

func (id AccountID) IsZero() bool {
	return id.Shard == 0 && id.Realm == 0 && id.Num == 0
}

func (id AccountID) String() string {
	return fmt.Sprintf("%d.%d.%d", id.Shard, id.Realm, id.Num)
}

// MarshalText allows account ids as YAML/JSON keys and values.
func (id AccountID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

func (id *AccountID) UnmarshalText(text []byte) error {
	parsed, err := ParseAccountID(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func (id FileID) String() string {
	return fmt.Sprintf("%d.%d.%d", id.Shard, id.Realm, id.Num)
}

func (id ContractID) String() string {
	return fmt.Sprintf("%d.%d.%d", id.Shard, id.Realm, id.Num)
}

func (id TopicID) String() string {
	return fmt.Sprintf("%d.%d.%d", id.Shard, id.Realm, id.Num)
}

func cmpInt64(a, b int64) int {
	if a < b {
		return -1
	}
	if a > b {
		return 1
	}
	return 0
}
