/*
 * Copyright The OpenTelemetry Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *        http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 *
 */

// Package arrow holds debugging helpers for inspecting the Columnar
// Encoder's output: a schema/record table dump grounded on the teacher's
// own pkg/benchmark.Profiler (which renders its summary tables with
// tablewriter and formats byte counts with go-humanize), and a decode
// helper that reads an Arrow IPC stream back the way the teacher's own
// otel/trace and otel/arrow_record consumers do with ipc.NewReader.
package arrow

import (
	"bytes"
	"fmt"
	"io"

	"github.com/apache/arrow/go/v12/arrow"
	"github.com/apache/arrow/go/v12/arrow/ipc"
	"github.com/apache/arrow/go/v12/arrow/memory"
	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
)

// DumpSchema renders sc as a name/type/nullable table, one row per field.
func DumpSchema(w io.Writer, sc *arrow.Schema) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"field", "type", "nullable"})
	table.SetBorder(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoWrapText(false)
	table.SetHeaderColor(
		tablewriter.Color(tablewriter.Normal, tablewriter.FgGreenColor),
		tablewriter.Color(tablewriter.Normal, tablewriter.FgGreenColor),
		tablewriter.Color(tablewriter.Normal, tablewriter.FgGreenColor),
	)

	for _, f := range sc.Fields() {
		table.Append([]string{f.Name, f.Type.String(), fmt.Sprintf("%v", f.Nullable)})
	}
	table.Render()
}

// DumpRecords renders one summary row per record: row count and an
// estimate of the buffers' resident size via humanize.Bytes, the same
// decoration the teacher's profiler applies to its own accumulated byte
// counts.
func DumpRecords(w io.Writer, recs []arrow.Record) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"chunk", "rows", "columns", "size"})
	table.SetBorder(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)

	var totalRows int64
	var totalSize uint64
	for i, rec := range recs {
		size := recordSize(rec)
		totalRows += rec.NumRows()
		totalSize += size
		table.Append([]string{
			fmt.Sprintf("%d", i),
			fmt.Sprintf("%d", rec.NumRows()),
			fmt.Sprintf("%d", rec.NumCols()),
			humanize.Bytes(size),
		})
	}
	table.SetFooter([]string{"total", fmt.Sprintf("%d", totalRows), "", humanize.Bytes(totalSize)})
	table.Render()
}

// recordSize sums the resident size of every buffer backing every column
// of rec, a rough (over-)estimate since dictionary and null buffers may be
// shared across chunks.
func recordSize(rec arrow.Record) uint64 {
	var size uint64
	for _, col := range rec.Columns() {
		for _, buf := range col.Data().Buffers() {
			if buf != nil {
				size += uint64(buf.Len())
			}
		}
	}
	return size
}

// DecodeStream reads back an Arrow IPC stream produced by pkg/encode's
// Encoder, returning every record batch message in order. Callers must
// Release each returned record once done with it. This is the same
// ipc.NewReader round trip the teacher's otel/trace and otel/arrow_record
// consumers use to decode a received payload, used here instead to verify
// what the Object-Store Sink wrote.
func DecodeStream(data []byte, pool memory.Allocator) ([]arrow.Record, *arrow.Schema, error) {
	r, err := ipc.NewReader(bytes.NewReader(data), ipc.WithAllocator(pool))
	if err != nil {
		return nil, nil, err
	}
	defer r.Release()

	var out []arrow.Record
	for r.Next() {
		rec := r.Record()
		rec.Retain()
		out = append(out, rec)
	}
	if err := r.Err(); err != nil && err != io.EOF {
		return nil, nil, err
	}
	return out, r.Schema(), nil
}
