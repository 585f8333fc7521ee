package storage

import (
	"encoding/json"
	"errors"

	"dendrion/internal/model"
)

const (
	CurrentSchemaVersion = 1
	CurrentCodecVersion  = 1
)

var ErrVersionMismatch = errors.New("record version mismatch")

// Stamp returns the version header for newly persisted records.
func Stamp() model.VersionedRecord {
	return model.VersionedRecord{
		SchemaVersion: CurrentSchemaVersion,
		CodecVersion:  CurrentCodecVersion,
	}
}

func EncodeRunSummary(s model.RunSummary) ([]byte, error) {
	return json.Marshal(s)
}

func DecodeRunSummary(data []byte) (model.RunSummary, error) {
	var summary model.RunSummary
	if err := json.Unmarshal(data, &summary); err != nil {
		return model.RunSummary{}, err
	}
	if err := checkVersion(summary.VersionedRecord); err != nil {
		return model.RunSummary{}, err
	}
	return summary, nil
}

func EncodeTickSnapshot(s model.TickSnapshot) ([]byte, error) {
	return json.Marshal(s)
}

func DecodeTickSnapshot(data []byte) (model.TickSnapshot, error) {
	var snapshot model.TickSnapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return model.TickSnapshot{}, err
	}
	if err := checkVersion(snapshot.VersionedRecord); err != nil {
		return model.TickSnapshot{}, err
	}
	return snapshot, nil
}

func EncodeTopology(t model.TopologyDump) ([]byte, error) {
	return json.Marshal(t)
}

func DecodeTopology(data []byte) (model.TopologyDump, error) {
	var topology model.TopologyDump
	if err := json.Unmarshal(data, &topology); err != nil {
		return model.TopologyDump{}, err
	}
	if err := checkVersion(topology.VersionedRecord); err != nil {
		return model.TopologyDump{}, err
	}
	return topology, nil
}

func checkVersion(v model.VersionedRecord) error {
	if v.SchemaVersion != CurrentSchemaVersion || v.CodecVersion != CurrentCodecVersion {
		return ErrVersionMismatch
	}
	return nil
}
