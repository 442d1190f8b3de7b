package orm

import (
	"github.com/pensionledger/weave"
	"github.com/pensionledger/weave/errors"
)

// CloneableData is a value that can be kept in a bucket.
type CloneableData interface {
	weave.Persistent
	Validate() error
	Copy() CloneableData
}

// Model is what a ModelBucket stores. It is the same contract as
// CloneableData.
type Model = CloneableData

// Object is a stored value together with its primary key.
type Object interface {
	Cloneable
	Key() []byte
	SetKey([]byte)
	Value() weave.Persistent
	Validate() error
}

// Cloneable produces empty objects to decode stored values into.
type Cloneable interface {
	Clone() Object
}

// SimpleObj is the Object used by all buckets in this module.
type SimpleObj struct {
	key   []byte
	value CloneableData
}

var _ Object = (*SimpleObj)(nil)

func NewSimpleObj(key []byte, value CloneableData) *SimpleObj {
	return &SimpleObj{key: key, value: value}
}

func (o *SimpleObj) Key() []byte { return o.key }

func (o *SimpleObj) SetKey(key []byte) { o.key = key }

func (o *SimpleObj) Value() weave.Persistent { return o.value }

// Validate requires a key and a valid value.
func (o *SimpleObj) Validate() error {
	switch {
	case len(o.key) == 0:
		return errors.Field("Key", errors.ErrEmpty, "required")
	case o.value == nil:
		return errors.Field("Value", errors.ErrEmpty, "required")
	}
	return errors.Field("Value", o.value.Validate(), "invalid")
}

// Clone deep copies the value. An empty key stays nil.
func (o *SimpleObj) Clone() Object {
	c := &SimpleObj{value: o.value.Copy()}
	if len(o.key) != 0 {
		c.key = append([]byte(nil), o.key...)
	}
	return c
}
