package speaker

import (
	"encoding/binary"
	"testing"

	"github.com/kyma-sound/kyma"
)

func constant(left, right float64, n int) kyma.Streamer {
	return kyma.Take(n, kyma.StreamerFunc(func(samples [][2]float64) (int, bool) {
		for i := range samples {
			samples[i] = [2]float64{left, right}
		}
		return len(samples), true
	}))
}

func TestReaderEncodesMix(t *testing.T) {
	m := &mixer{}
	m.add(constant(0.5, -0.5, 3), constant(0.25, 0.25, 2))
	r := newReader(m)

	buf := make([]byte, 4*4)
	n, err := r.Read(buf)
	if err != nil || n != len(buf) {
		t.Fatalf("Read = %d, %v", n, err)
	}
	q := func(x float64) int16 { return int16(x * 32767) }
	want := [][2]int16{
		{q(0.75), q(-0.25)},
		{q(0.75), q(-0.25)},
		{q(0.5), q(-0.5)},
		{0, 0},
	}
	for i, w := range want {
		left := int16(binary.LittleEndian.Uint16(buf[i*4:]))
		right := int16(binary.LittleEndian.Uint16(buf[i*4+2:]))
		if left != w[0] || right != w[1] {
			t.Errorf("sample %d: got [%d %d], want %v", i, left, right, w)
		}
	}
	if _, err := r.Read(buf); err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(m.streamers) != 0 {
		t.Fatalf("drained streamers were kept: %d", len(m.streamers))
	}
}

func TestReaderClampsAndPlaysSilence(t *testing.T) {
	m := &mixer{}
	m.add(constant(2, -3, 1))
	r := newReader(m)
	buf := make([]byte, 8)
	if _, err := r.Read(buf); err != nil {
		t.Fatalf("Read: %v", err)
	}
	if left, right := int16(binary.LittleEndian.Uint16(buf)), int16(binary.LittleEndian.Uint16(buf[2:])); left != 32767 || right != -32767 {
		t.Errorf("clamped sample: [%d %d]", left, right)
	}
	if l := binary.LittleEndian.Uint32(buf[4:]); l != 0 {
		t.Errorf("empty mixer must stream silence, got %#x", l)
	}
	if _, err := r.Read(make([]byte, 3)); err == nil {
		t.Error("Read of an unaligned buffer expected error")
	}
}

func TestMixerRemove(t *testing.T) {
	m := &mixer{}
	a, b := constant(1, 1, 10), constant(1, 1, 10)
	m.add(a, b)
	m.remove(a)
	if len(m.streamers) != 1 || m.streamers[0] != b {
		t.Fatalf("remove left %v", m.streamers)
	}
	m.clear()
	if len(m.streamers) != 0 {
		t.Fatal("clear left streamers behind")
	}
}
