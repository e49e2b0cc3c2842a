package stdattr

import (
	"testing"

	"github.com/sharedcode/ocaf"
	"github.com/sharedcode/ocaf/tdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type part struct {
	Name   string
	Tags   []string
	Params map[string]float64
}

var partKind = RegisterValue[part]("test.Part")

func newLabel(t *testing.T, d *tdf.Data, entry string) tdf.Label {
	t.Helper()
	l, err := d.FindLabel(entry, true)
	require.NoError(t, err)
	return l
}

func TestScalarsUndo(t *testing.T) {
	d := tdf.New()
	l := newLabel(t, d, "0:1")

	d.OpenTransaction()
	_, err := SetInteger(l, 7)
	require.NoError(t, err)
	_, err = SetReal(l, 3.14)
	require.NoError(t, err)
	_, err = SetName(l, "bracket")
	require.NoError(t, err)
	_, err = SetComment(l, "left side")
	require.NoError(t, err)
	first, err := d.CommitTransaction(true)
	require.NoError(t, err)

	d.OpenTransaction()
	SetInteger(l, 8)
	SetReal(l, 2.71)
	SetName(l, "brace")
	second, _ := d.CommitTransaction(true)
	assert.Equal(t, 3, second.Len())

	v, _ := GetInteger(l)
	assert.EqualValues(t, 8, v)
	_, err = d.Undo(second, false)
	require.NoError(t, err)
	v, _ = GetInteger(l)
	assert.EqualValues(t, 7, v)
	r, _ := GetReal(l)
	assert.Equal(t, 3.14, r)
	n, _ := GetName(l)
	assert.Equal(t, "bracket", n)

	_, err = d.Undo(first, false)
	require.NoError(t, err)
	_, ok := GetInteger(l)
	assert.False(t, ok)
	_, ok = GetComment(l)
	assert.False(t, ok)
}

func TestSetSameValueRecordsNothing(t *testing.T) {
	d := tdf.New()
	l := newLabel(t, d, "0:1")
	SetReal(l, 1)
	d.OpenTransaction()
	SetReal(l, 1)
	assert.Equal(t, 0, d.NbTouchedAttributes())
	d.AbortTransaction()
}

func TestArrays(t *testing.T) {
	d := tdf.New()
	l := newLabel(t, d, "0:1")
	ia, err := SetIntegerArray(l, []int64{1, 2, 3})
	require.NoError(t, err)
	ra, _ := SetRealArray(l, []float64{0.5, 1.5})
	ba, _ := SetByteArray(l, []byte{0xca, 0xfe})

	d.OpenTransaction()
	require.NoError(t, ia.SetValue(1, 20))
	require.NoError(t, ra.SetValue(0, 9))
	assert.Error(t, ia.SetValue(5, 1))
	ba.Set([]byte{1})
	delta, _ := d.CommitTransaction(true)

	got, _ := GetIntegerArray(l)
	assert.Equal(t, []int64{1, 20, 3}, got)
	_, err = d.Undo(delta, false)
	require.NoError(t, err)
	got, _ = GetIntegerArray(l)
	assert.Equal(t, []int64{1, 2, 3}, got)
	rs, _ := GetRealArray(l)
	assert.Equal(t, []float64{0.5, 1.5}, rs)
	bs, _ := GetByteArray(l)
	assert.Equal(t, []byte{0xca, 0xfe}, bs)
	assert.Equal(t, "cafe", ba.String())
	assert.Equal(t, 3, ia.Len())
}

func TestReference(t *testing.T) {
	d := tdf.New(tdf.WithAccessByEntries(true))
	src := newLabel(t, d, "0:1")
	dst := newLabel(t, d, "0:2:4")
	_, err := SetReference(src, dst)
	require.NoError(t, err)
	got, ok := GetReference(src)
	require.True(t, ok)
	assert.Equal(t, dst, got)
}

func TestUUIDAndTick(t *testing.T) {
	d := tdf.New()
	l := newLabel(t, d, "0:3")
	id := ocaf.NewUUID()
	_, err := SetUUID(l, id)
	require.NoError(t, err)
	got, ok := GetUUID(l)
	require.True(t, ok)
	assert.Equal(t, id, got)

	assert.False(t, IsTicked(l))
	d.OpenTransaction()
	_, err = SetTick(l)
	require.NoError(t, err)
	delta, _ := d.CommitTransaction(true)
	assert.True(t, IsTicked(l))
	d.Undo(delta, false)
	assert.False(t, IsTicked(l))
}

func TestValueDeepCopy(t *testing.T) {
	d := tdf.New()
	l := newLabel(t, d, "0:1")
	v, err := SetValue(l, partKind, part{Name: "p", Tags: []string{"a"}, Params: map[string]float64{"w": 1}})
	require.NoError(t, err)

	d.OpenTransaction()
	v.Update(func(p *part) {
		p.Tags[0] = "changed"
		p.Params["w"] = 2
		p.Name = "q"
	})
	delta, _ := d.CommitTransaction(true)

	_, err = d.Undo(delta, false)
	require.NoError(t, err)
	got, ok := GetValue[part](l, partKind)
	require.True(t, ok)
	assert.Equal(t, "p", got.Name)
	assert.Equal(t, []string{"a"}, got.Tags)
	assert.Equal(t, 1.0, got.Params["w"])
	assert.Equal(t, "test.Part", partKind.String())
	_, isValue := partKind.New().(*Value[part])
	assert.True(t, isValue)
}

func TestSetOnDetachedLabelFails(t *testing.T) {
	d := tdf.New()
	d.OpenTransaction()
	l := newLabel(t, d, "0:1")
	delta, _ := d.CommitTransaction(true)
	d.Undo(delta, false)
	_, err := SetName(l, "x")
	assert.True(t, ocaf.IsCode(err, ocaf.DetachedLabel))
}
