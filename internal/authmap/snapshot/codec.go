// Copyright 2020 Lingfei Kong <colin404@foxmail.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

package snapshot

import (
	"bytes"
	"sort"

	"github.com/marmotedu/component-base/pkg/json"
	"github.com/marmotedu/errors"

	"github.com/marmotedu/authmap/internal/pkg/code"
)

// recordJSON fixes the wire field names of the snapshot file. Fields are
// declared in lexicographic order so the encoded object keys come out
// sorted, matching the sorted map keys inside ROLES.
type recordJSON struct {
	DN     string              `json:"DN"`
	ID     int64               `json:"ID"`
	Login  string              `json:"LOGIN"`
	Name   string              `json:"NAME"`
	Passwd string              `json:"PASSWD"`
	Roles  map[string][]string `json:"ROLES"`
}

// Marshal encodes the records as a JSON array with one record per line
// and a trailing newline. The encoding is byte-for-byte reproducible for
// the same record set, independent of insertion order: records are
// ordered by ascending id and every role list is sorted and deduplicated.
func Marshal(records []*Record) ([]byte, error) {
	ordered := make([]*Record, len(records))
	copy(ordered, records)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].ID < ordered[j].ID })

	var buf bytes.Buffer
	buf.WriteString("[")
	for i, record := range ordered {
		if i > 0 {
			buf.WriteString(",")
		}
		buf.WriteString("\n ")

		data, err := json.Marshal(recordJSON{
			DN:     record.DN,
			ID:     record.ID,
			Login:  record.Login,
			Name:   record.Name,
			Passwd: record.Passwd,
			Roles:  canonicalRoles(record.Roles),
		})
		if err != nil {
			return nil, errors.WithCode(code.ErrSnapshotEncode, "encode record id=%d: %s", record.ID, err.Error())
		}
		buf.Write(data)
	}
	buf.WriteString("\n]\n")

	return buf.Bytes(), nil
}

// canonicalRoles returns a copy of roles with each grant list sorted and
// deduplicated. The result is never nil so empty role sets encode as {}.
func canonicalRoles(roles map[string][]string) map[string][]string {
	out := make(map[string][]string, len(roles))
	for title, grants := range roles {
		sorted := make([]string, len(grants))
		copy(sorted, grants)
		sort.Strings(sorted)

		deduped := sorted[:0]
		for _, grant := range sorted {
			if len(deduped) == 0 || deduped[len(deduped)-1] != grant {
				deduped = append(deduped, grant)
			}
		}
		out[title] = deduped
	}

	return out
}
