// SPDX-License-Identifier: EPL-2.0

package nodeinfo

import (
	"slices"
	"testing"
)

func TestAWG(t *testing.T) {
	t.Parallel()

	tree := AWG("/DEV8000/awgs/0/")

	info, ok := tree.Lookup("/dev8000/awgs/0/commandtable/status")
	if !ok {
		t.Fatal("Lookup(commandtable/status) found nothing")
	}
	if info.Writable() || !info.Readable() {
		t.Errorf("status node is read %v write %v", info.Readable(), info.Writable())
	}
	if info.Node != "/dev8000/awgs/0/commandtable/status" {
		t.Errorf("Node = %q", info.Node)
	}

	wave, ok := tree.Lookup("/dev8000/awgs/0/waveform/waves/7")
	if !ok || !wave.IsVector() || !wave.Writable() {
		t.Errorf("waves/7 = %+v, %v", wave, ok)
	}
	if wave.Node != "/dev8000/awgs/0/waveform/waves/7" {
		t.Errorf("Node = %q", wave.Node)
	}

	if _, ok := tree.Lookup("/dev8000/awgs/1/enable"); ok {
		t.Error("Lookup() matched a node of another core")
	}
}

func TestParse(t *testing.T) {
	t.Parallel()

	raw := `{"/DEV1/SIGOUTS/0/ON": {"Description": "Output switch", "Properties": "Read, Write, Setting", "Type": "Integer (64 bit)", "Unit": "None"}}`
	tree, err := Parse([]byte(raw))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if !slices.Equal(tree.Paths(), []string{"/dev1/sigouts/0/on"}) {
		t.Errorf("Paths() = %v", tree.Paths())
	}
	if info, _ := tree.Lookup("/dev1/SigOuts/0/On"); info.Description != "Output switch" {
		t.Errorf("Lookup() = %+v", info)
	}

	if _, err := Parse([]byte(`[1]`)); err == nil {
		t.Error("Parse() accepted a list")
	}
}

func TestTree_Matching(t *testing.T) {
	t.Parallel()

	tree := AWG("/dev1/awgs/0")
	sub := tree.Matching("/dev1/awgs/0/commandtable")
	want := []string{
		"/dev1/awgs/0/commandtable/clear",
		"/dev1/awgs/0/commandtable/data",
		"/dev1/awgs/0/commandtable/schema",
		"/dev1/awgs/0/commandtable/status",
	}
	if !slices.Equal(sub.Paths(), want) {
		t.Errorf("Matching() = %v, want %v", sub.Paths(), want)
	}
	if all := tree.Matching("*"); len(all) != len(tree) {
		t.Errorf("Matching(*) has %d nodes, want %d", len(all), len(tree))
	}

	tree.Merge(AWG("/dev1/awgs/1"))
	if _, ok := tree.Lookup("/dev1/awgs/1/enable"); !ok {
		t.Error("Merge() lost the second core")
	}
}
