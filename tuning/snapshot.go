package tuning

import (
	"fmt"
	"io"

	"github.com/pierrec/lz4/v4"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/openfluke/blast/device"
)

// SnapshotVersion is the current wire version of the snapshot format.
const SnapshotVersion = 1

// snapshotRecord is the wire format for one database entry.
type snapshotRecord struct {
	Vendor    string         `msgpack:"d"`
	Op        string         `msgpack:"o"`
	Precision uint8          `msgpack:"p"`
	Params    map[string]int `msgpack:"v"`
}

type snapshotFile struct {
	Version int              `msgpack:"ver"`
	Records []snapshotRecord `msgpack:"recs"`
}

// WriteSnapshot serializes the database as an LZ4-framed msgpack stream, the
// format the offline tuner emits.
func (db *Database) WriteSnapshot(w io.Writer) error {
	file := snapshotFile{Version: SnapshotVersion}
	for key, params := range db.entries {
		file.Records = append(file.Records, snapshotRecord{
			Vendor:    key.vendor,
			Op:        key.op,
			Precision: uint8(key.precision),
			Params:    params,
		})
	}
	zw := lz4.NewWriter(w)
	if err := msgpack.NewEncoder(zw).Encode(&file); err != nil {
		return fmt.Errorf("tuning: encode snapshot: %w", err)
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("tuning: flush snapshot: %w", err)
	}
	return nil
}

// ReadSnapshot merges a snapshot into the database. Entries in the snapshot
// replace built-in ones for the same {vendor, op, precision} triple.
func (db *Database) ReadSnapshot(r io.Reader) error {
	var file snapshotFile
	if err := msgpack.NewDecoder(lz4.NewReader(r)).Decode(&file); err != nil {
		return fmt.Errorf("tuning: decode snapshot: %w", err)
	}
	if file.Version != SnapshotVersion {
		return fmt.Errorf("tuning: snapshot version %d, want %d", file.Version, SnapshotVersion)
	}
	for _, rec := range file.Records {
		db.Add(rec.Vendor, rec.Op, device.Precision(rec.Precision), rec.Params)
	}
	return nil
}
