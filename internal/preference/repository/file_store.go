package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	preferencedomain "github.com/smallbiznis/lightmeasure/internal/preference/domain"
	"github.com/vmihailenco/msgpack/v5"
)

// Codec encodes the whole preference document.
type Codec interface {
	Marshal(state preferencedomain.State) ([]byte, error)
	Unmarshal(data []byte, state *preferencedomain.State) error
}

type jsonCodec struct{}

func (jsonCodec) Marshal(state preferencedomain.State) ([]byte, error) {
	return json.Marshal(state)
}

func (jsonCodec) Unmarshal(data []byte, state *preferencedomain.State) error {
	return json.Unmarshal(data, state)
}

type msgpackCodec struct{}

func (msgpackCodec) Marshal(state preferencedomain.State) ([]byte, error) {
	return msgpack.Marshal(&state)
}

func (msgpackCodec) Unmarshal(data []byte, state *preferencedomain.State) error {
	return msgpack.Unmarshal(data, state)
}

var (
	JSON    Codec = jsonCodec{}
	Msgpack Codec = msgpackCodec{}
)

// fileStore keeps the document in a single file and replaces it on every save.
type fileStore struct {
	path  string
	codec Codec
}

func NewFileStore(path string, codec Codec) preferencedomain.Repository {
	return &fileStore{path: path, codec: codec}
}

func (r *fileStore) Load(ctx context.Context) (preferencedomain.State, error) {
	if err := ctx.Err(); err != nil {
		return preferencedomain.State{}, err
	}

	data, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return preferencedomain.State{}, preferencedomain.ErrNotFound
		}
		return preferencedomain.State{}, err
	}

	var state preferencedomain.State
	if err := r.codec.Unmarshal(data, &state); err != nil {
		return preferencedomain.State{}, fmt.Errorf("%w: %s: %v", preferencedomain.ErrCorrupt, r.path, err)
	}
	return state, nil
}

// Save writes to a temp file in the same directory and renames it over the
// target, so readers never observe a half-written document.
func (r *fileStore) Save(ctx context.Context, state preferencedomain.State) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := r.codec.Marshal(state)
	if err != nil {
		return err
	}

	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(r.path)+".*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() {
		_ = os.Remove(tmpName)
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, r.path)
}
