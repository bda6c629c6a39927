package inventory

import (
	"strconv"
	"strings"

	"github.com/meshwise/meshcost/internal/model"
)

// Parsing of pasted spreadsheet exports. Input is tab-separated, one
// record per line, with an optional header row. Pasted data is expected
// to be ragged and human-edited: unparseable numbers degrade to 0 and
// missing trailing fields are treated as empty, neither is an error.

// Namespace rows carry 14 columns:
//
//	Cluster, Namespace, Services, Pods, Containers,
//	ReqCores, ReqMem, LimitCores, LimitMem,
//	SidecarProxies, SidecarReqCPU, SidecarReqMem, SidecarLimitCPU, SidecarLimitMem
//
// Node rows carry 10 columns:
//
//	Cluster, Name, Type, Region, Zone, CPUs, Memory(GB), K8sVersion, OS, Arch

// ParseNamespaceRows parses pasted namespace inventory text. Output
// order matches input line order; duplicates are kept, not merged.
func ParseNamespaceRows(text string) []model.NamespaceRow {
	var rows []model.NamespaceRow
	for _, line := range dataLines(text) {
		f := strings.Split(line, "\t")
		rows = append(rows, model.NamespaceRow{
			Cluster:         field(f, 0),
			Namespace:       field(f, 1),
			Services:        intField(f, 2),
			Pods:            intField(f, 3),
			Containers:      intField(f, 4),
			ReqCores:        numField(f, 5),
			ReqMem:          numField(f, 6),
			LimitCores:      numField(f, 7),
			LimitMem:        numField(f, 8),
			SidecarProxies:  intField(f, 9),
			SidecarReqCPU:   numField(f, 10),
			SidecarReqMem:   numField(f, 11),
			SidecarLimitCPU: numField(f, 12),
			SidecarLimitMem: numField(f, 13),
		})
	}
	return rows
}

// ParseNodeRows parses pasted node inventory text.
func ParseNodeRows(text string) []model.NodeRow {
	var rows []model.NodeRow
	for _, line := range dataLines(text) {
		f := strings.Split(line, "\t")
		rows = append(rows, model.NodeRow{
			Cluster:    field(f, 0),
			Name:       field(f, 1),
			Type:       field(f, 2),
			Region:     field(f, 3),
			Zone:       field(f, 4),
			CPUs:       intField(f, 5),
			MemoryGiB:  numField(f, 6),
			K8sVersion: field(f, 7),
			OS:         field(f, 8),
			Arch:       field(f, 9),
		})
	}
	return rows
}

// dataLines splits the input into non-blank lines with any header
// removed. A line is a header when, case-insensitively, it starts with
// "cluster" and also mentions "namespace" or "name" — which covers both
// row schemas with or without a pasted header.
func dataLines(text string) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if isHeader(line) {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

func isHeader(line string) bool {
	l := strings.ToLower(line)
	return strings.HasPrefix(l, "cluster") &&
		(strings.Contains(l, "namespace") || strings.Contains(l, "name"))
}

// field returns the i-th tab field, or "" when the line is short.
func field(fields []string, i int) string {
	if i >= len(fields) {
		return ""
	}
	return strings.TrimSpace(fields[i])
}

// numField parses the i-th field as a float, degrading to 0 on any
// parse failure.
func numField(fields []string, i int) float64 {
	v, err := strconv.ParseFloat(field(fields, i), 64)
	if err != nil {
		return 0
	}
	return v
}

// intField parses the i-th field as an integer count. Spreadsheet
// exports sometimes render counts as "3.0", so it goes through float.
func intField(fields []string, i int) int {
	return int(numField(fields, i))
}
