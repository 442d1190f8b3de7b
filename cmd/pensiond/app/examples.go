package pensiond

import (
	"encoding/hex"
	"strings"

	"github.com/pensionledger/weave/coin"
	"github.com/pensionledger/weave/commands"
	"github.com/pensionledger/weave/crypto"
	"github.com/pensionledger/weave/x/cash"
	"github.com/pensionledger/weave/x/pension"
	"github.com/pensionledger/weave/x/sigs"
)

// Fixed keys keep the testgen output reproducible. They are not secret.
var (
	member = makePrivKey("1234567890")
	owner  = makePrivKey("F00BA411").PublicKey().Address()
)

// makePrivKey repeats the string up to 64 hex digits and uses the decoded
// bytes as the key seed.
func makePrivKey(seed string) *crypto.PrivateKey {
	rep := 64/len(seed) + 1
	in := strings.Repeat(seed, rep)[:64]
	bin, err := hex.DecodeString(in)
	if err != nil {
		panic(err)
	}
	return crypto.PrivKeyEd25519FromSeed(bin)
}

// Examples returns the structures that client libraries must be able to
// encode and decode.
func Examples() []commands.Example {
	const (
		retireAt      = 1893456000 // 2030-01-01
		benefitWindow = 2524608000 // 2050-01-01
	)

	contribution := coin.NewCoinp(12, 500000000, defaultTicker)
	addr := member.PublicKey().Address()

	wallet := &cash.Set{
		Coins: []*coin.Coin{coin.NewCoinp(initialSupply, 0, defaultTicker)},
	}
	pensioner := &pension.Pensioner{
		Address:       addr,
		RetireAt:      retireAt,
		BenefitWindow: benefitWindow,
		FundedBalance: contribution,
	}
	conf := &pension.Configuration{
		Owner:          owner,
		Ticker:         defaultTicker,
		PayoutInterval: 604800,
	}
	snapshot := &pension.StateSnapshot{
		CalculatedAt:      retireAt,
		NextCalculationAt: retireAt + 604800,
		Active:            3,
		Retired:           1,
		Balance:           coin.NewCoinp(40, 0, defaultTicker),
	}

	createMsg := &pension.CreatePensionerMsg{RetireAt: retireAt, BenefitWindow: benefitWindow}
	fundMsg := &pension.FundPensionMsg{Amount: contribution}
	sendMsg := &cash.SendMsg{
		Source:      addr,
		Destination: owner,
		Amount:      coin.NewCoinp(1, 0, defaultTicker),
		Memo:        "thanks",
	}

	unsigned := &Tx{PensionFundMsg: fundMsg}
	signed := &Tx{PensionFundMsg: fundMsg}
	sig, err := sigs.SignTx(member, signed, "pension-test-1", 0)
	if err != nil {
		panic(err)
	}
	signed.Signatures = []*sigs.StdSignature{sig}

	return []commands.Example{
		{Filename: "wallet", Obj: wallet},
		{Filename: "pensioner", Obj: pensioner},
		{Filename: "configuration", Obj: conf},
		{Filename: "state_snapshot", Obj: snapshot},
		{Filename: "create_pensioner_msg", Obj: createMsg},
		{Filename: "fund_pension_msg", Obj: fundMsg},
		{Filename: "send_msg", Obj: sendMsg},
		{Filename: "unsigned_tx", Obj: unsigned},
		{Filename: "signed_tx", Obj: signed},
		{Filename: "priv_key", Obj: member},
		{Filename: "pub_key", Obj: member.PublicKey()},
	}
}
