package pensiond

import (
	"github.com/pensionledger/weave"
	"github.com/pensionledger/weave/x/sigs"
)

var (
	_ weave.Tx      = (*Tx)(nil)
	_ sigs.SignedTx = (*Tx)(nil)
)

// TxDecoder decodes a Tx, the only transaction format of the ledger.
func TxDecoder(raw []byte) (weave.Tx, error) {
	var tx Tx
	if err := tx.Unmarshal(raw); err != nil {
		return nil, err
	}
	return &tx, nil
}

// GetMsg fails unless exactly one message field is set.
func (tx *Tx) GetMsg() (weave.Msg, error) {
	return weave.ExtractMsgFromFields(tx)
}

func (tx *Tx) GetSignatures() []*sigs.StdSignature {
	return tx.Signatures
}

// GetSignBytes encodes tx without its signatures, so that every signer
// signs the same bytes.
func (tx *Tx) GetSignBytes() ([]byte, error) {
	unsigned := *tx
	unsigned.Signatures = nil
	return unsigned.Marshal()
}

func (tx *Tx) AddSignature(sig *sigs.StdSignature) {
	tx.Signatures = append(tx.Signatures, sig)
}
