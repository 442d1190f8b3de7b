package weave

import "fmt"

// Query modifiers, appended to the path after a "?". Without a modifier
// the data is an exact key, with "prefix" every key starting with data
// matches.
const (
	KeyQueryMod    = ""
	PrefixQueryMod = "prefix"
)

// Model is a single key and value read from the store.
type Model struct {
	Key   []byte
	Value []byte
}

// Pair builds a Model.
func Pair(key, value []byte) Model {
	return Model{Key: key, Value: value}
}

// QueryHandler answers ABCI queries for one path.
type QueryHandler interface {
	Query(db ReadOnlyKVStore, mod string, data []byte) ([]Model, error)
}

// QueryRouter dispatches a query path such as "/pensioners" to the
// handler registered for it.
type QueryRouter struct {
	routes map[string]QueryHandler
}

// NewQueryRouter returns a router without any routes.
func NewQueryRouter() QueryRouter {
	return QueryRouter{routes: make(map[string]QueryHandler)}
}

// RegisterAll calls every register function with this router. Each
// extension exposes one, for example pension.RegisterQuery.
func (r QueryRouter) RegisterAll(fns ...func(QueryRouter)) {
	for _, register := range fns {
		register(r)
	}
}

// Register binds h to path. A path can be bound only once.
func (r QueryRouter) Register(path string, h QueryHandler) {
	if _, ok := r.routes[path]; ok {
		panic(fmt.Sprintf("query path %q registered twice", path))
	}
	r.routes[path] = h
}

// Handler returns the handler of path or nil.
func (r QueryRouter) Handler(path string) QueryHandler {
	return r.routes[path]
}
