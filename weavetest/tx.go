package weavetest

import "github.com/pensionledger/weave"

// Tx carries Msg, or fails with Err. It cannot be serialized.
type Tx struct {
	Msg weave.Msg
	Err error
}

var _ weave.Tx = (*Tx)(nil)

func (tx *Tx) GetMsg() (weave.Msg, error) { return tx.Msg, tx.Err }

func (tx *Tx) Marshal() ([]byte, error) { panic("weavetest.Tx cannot be serialized") }

func (tx *Tx) Unmarshal([]byte) error { panic("weavetest.Tx cannot be serialized") }

// Msg is routed to RoutePath. Serialized is its encoded form, and every
// method fails with Err when it is set.
type Msg struct {
	RoutePath  string
	Serialized []byte
	Err        error
}

var _ weave.Msg = (*Msg)(nil)

func (m *Msg) Path() string { return m.RoutePath }

func (m *Msg) Validate() error { return m.Err }

func (m *Msg) Marshal() ([]byte, error) { return m.Serialized, m.Err }

func (m *Msg) Unmarshal(raw []byte) error {
	m.Serialized = raw
	return m.Err
}
