package dumputil

import (
	"fmt"

	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"

	"uddtool/udd"
)

const schema = `
CREATE TABLE document (
	source  TEXT NOT NULL,
	version TEXT NOT NULL
);
CREATE TABLE chunks (
	idx      INTEGER PRIMARY KEY,
	pos      INTEGER NOT NULL,
	tag      TEXT NOT NULL,
	kind     TEXT,
	format   TEXT,
	size     INTEGER NOT NULL,
	rendered TEXT,
	error    TEXT,
	payload  BLOB
);
CREATE INDEX chunks_kind ON chunks(kind);
`

// DumpSQLite builds in-memory database with a row per chunk and returns its
// serialized image.
func DumpSQLite(doc *udd.Document, name string) ([]byte, error) {
	conn, err := sqlite.OpenConn(":memory:", sqlite.OpenReadWrite, sqlite.OpenCreate, sqlite.OpenMemory)
	if err != nil {
		return nil, fmt.Errorf("open in-memory db: %w", err)
	}
	defer conn.Close()

	if err := sqlitex.ExecuteScript(conn, schema, nil); err != nil {
		return nil, fmt.Errorf("create schema: %w", err)
	}

	if err := fillDocument(conn, doc, name); err != nil {
		return nil, err
	}

	data, err := conn.Serialize("main")
	if err != nil {
		return nil, fmt.Errorf("serialize: %w", err)
	}
	return data, nil
}

func fillDocument(conn *sqlite.Conn, doc *udd.Document, name string) (err error) {
	defer sqlitex.Save(conn)(&err)

	err = sqlitex.Execute(conn, `INSERT INTO document (source, version) VALUES (?, ?)`,
		&sqlitex.ExecOptions{Args: []any{name, doc.Version().String()}})
	if err != nil {
		return fmt.Errorf("insert document: %w", err)
	}

	for _, ci := range Describe(doc) {
		err = sqlitex.Execute(conn,
			`INSERT INTO chunks (idx, pos, tag, kind, format, size, rendered, error, payload) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			&sqlitex.ExecOptions{Args: []any{
				ci.Index, ci.Offset, ci.Tag, nullable(ci.Kind), nullable(ci.Format),
				ci.Size, ci.Rendered, nullable(ci.Error), ci.Payload,
			}})
		if err != nil {
			return fmt.Errorf("insert chunk %d: %w", ci.Index, err)
		}
	}
	return nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
