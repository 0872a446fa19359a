package storage

import (
	"encoding/json"
	"errors"

	"curie/internal/model"
)

const (
	CurrentSchemaVersion = 1
	CurrentCodecVersion  = 1
)

var ErrVersionMismatch = errors.New("record version mismatch")

func EncodeSweep(s model.Sweep) ([]byte, error) {
	return json.Marshal(s)
}

func DecodeSweep(data []byte) (model.Sweep, error) {
	var sweep model.Sweep
	if err := json.Unmarshal(data, &sweep); err != nil {
		return model.Sweep{}, err
	}
	if err := checkVersion(sweep.VersionedRecord); err != nil {
		return model.Sweep{}, err
	}
	return sweep, nil
}

func checkVersion(v model.VersionedRecord) error {
	if v.SchemaVersion != CurrentSchemaVersion || v.CodecVersion != CurrentCodecVersion {
		return ErrVersionMismatch
	}
	return nil
}
