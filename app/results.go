package app

import (
	"github.com/gogo/protobuf/proto"
	"github.com/pensionledger/weave"
	"github.com/pensionledger/weave/errors"
	abci "github.com/tendermint/tendermint/abci/types"
)

// ResultSet is the encoding of query keys and values. A query response
// carries one set of keys and one of values, paired by position.
type ResultSet struct {
	Results [][]byte `protobuf:"bytes,1,rep,name=results,proto3" json:"results,omitempty"`
}

func (m *ResultSet) Reset()         { *m = ResultSet{} }
func (m *ResultSet) String() string { return proto.CompactTextString(m) }
func (*ResultSet) ProtoMessage()    {}

func (m *ResultSet) Marshal() ([]byte, error) {
	return proto.Marshal((*resultSetPB)(m))
}

func (m *ResultSet) Unmarshal(raw []byte) error {
	return proto.Unmarshal(raw, (*resultSetPB)(m))
}

type resultSetPB ResultSet

func (m *resultSetPB) Reset()         { *m = resultSetPB{} }
func (m *resultSetPB) String() string { return proto.CompactTextString(m) }
func (*resultSetPB) ProtoMessage()    {}

func ResultsFromKeys(models []weave.Model) *ResultSet {
	set := &ResultSet{Results: make([][]byte, 0, len(models))}
	for _, m := range models {
		set.Results = append(set.Results, m.Key)
	}
	return set
}

func ResultsFromValues(models []weave.Model) *ResultSet {
	set := &ResultSet{Results: make([][]byte, 0, len(models))}
	for _, m := range models {
		set.Results = append(set.Results, m.Value)
	}
	return set
}

// JoinResults pairs keys with values again.
func JoinResults(keys, values *ResultSet) ([]weave.Model, error) {
	if n, m := len(keys.Results), len(values.Results); n != m {
		return nil, errors.Wrapf(errors.ErrInput, "%d keys for %d values", n, m)
	}
	models := make([]weave.Model, len(keys.Results))
	for i, k := range keys.Results {
		models[i] = weave.Pair(k, values.Results[i])
	}
	return models, nil
}

// Querier answers abci queries. Both the application and a node client
// do.
type Querier interface {
	Query(abci.RequestQuery) abci.ResponseQuery
}

// QueryModels runs a query and decodes its result. A failed query returns
// the registered error matching the response code.
func QueryModels(q Querier, path string, data []byte) ([]weave.Model, error) {
	res := q.Query(abci.RequestQuery{Path: path, Data: data})
	if res.Code != abci.CodeTypeOK {
		return nil, errors.ABCIError(res.Code, res.Log)
	}
	var keys, values ResultSet
	if err := keys.Unmarshal(res.Key); err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "query keys: %s", err)
	}
	if err := values.Unmarshal(res.Value); err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "query values: %s", err)
	}
	return JoinResults(&keys, &values)
}
