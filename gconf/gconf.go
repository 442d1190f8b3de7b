package gconf

import (
	"github.com/pensionledger/weave"
	"github.com/pensionledger/weave/errors"
)

// ReadStore is the part of weave.ReadOnlyKVStore Load needs.
type ReadStore interface {
	Get(key []byte) ([]byte, error)
}

// Store is the part of weave.KVStore Save needs.
type Store interface {
	ReadStore
	Set(key, value []byte) error
}

// Configuration is the entity an extension keeps its settings in. The
// generated protobuf messages provide the codec, Validate is up to the
// extension.
type Configuration interface {
	Marshal() ([]byte, error)
	Unmarshal([]byte) error
	Validate() error
}

// key is "_c:" followed by the extension name. No bucket name can start
// with an underscore.
func key(pkg string) []byte {
	return []byte("_c:" + pkg)
}

// Save stores conf as the configuration of pkg. An invalid configuration
// is never written.
func Save(db Store, pkg string, conf Configuration) error {
	if err := conf.Validate(); err != nil {
		return errors.Wrapf(err, "%s configuration", pkg)
	}
	raw, err := conf.Marshal()
	if err != nil {
		return errors.Wrapf(err, "encode %s configuration", pkg)
	}
	return db.Set(key(pkg), raw)
}

// Load reads the configuration of pkg into dst. It fails with ErrNotFound
// when nothing was saved yet.
func Load(db ReadStore, pkg string, dst Configuration) error {
	raw, err := db.Get(key(pkg))
	switch {
	case err != nil:
		return err
	case raw == nil:
		return errors.Wrapf(errors.ErrNotFound, "%s configuration", pkg)
	}
	if err := dst.Unmarshal(raw); err != nil {
		return errors.Wrapf(errors.ErrState, "decode %s configuration: %s", pkg, err)
	}
	return nil
}

// InitConfig saves the genesis configuration of pkg, read from the "conf"
// section of the app state:
//
//	"conf": {"pension": {...}}
func InitConfig(db Store, opts weave.Options, pkg string, conf Configuration) error {
	var section weave.Options
	if err := opts.ReadOptions("conf", &section); err != nil {
		return errors.Wrap(err, "conf section")
	}
	if _, ok := section[pkg]; !ok {
		return errors.Wrapf(errors.ErrNotFound, "no %s configuration in genesis", pkg)
	}
	if err := section.ReadOptions(pkg, conf); err != nil {
		return errors.Wrapf(err, "read %s configuration", pkg)
	}
	return Save(db, pkg, conf)
}
