package pmid

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseCommaSeparated(t *testing.T) {
	ids, err := Parse("123,456", TextDelimiter)
	require.NoError(t, err)
	require.Equal(t, []int64{123, 456}, ids)
}

func TestParseTrimsTokensAndInput(t *testing.T) {
	ids, err := Parse("  30530648 , 31820734,31018141  ", ",")
	require.NoError(t, err)
	require.Equal(t, []int64{30530648, 31820734, 31018141}, ids)
}

func TestParseNewlineFile(t *testing.T) {
	ids, err := Parse("1\r\n2\r\n3\r\n", FileDelimiter)
	require.NoError(t, err)
	require.Equal(t, []int64{1, 2, 3}, ids)
}

func TestParseKeepsDuplicatesWithinBatch(t *testing.T) {
	ids, err := Parse("7,7,8", ",")
	require.NoError(t, err)
	require.Equal(t, []int64{7, 7, 8}, ids)
}

func TestParseReportsFirstInvalidToken(t *testing.T) {
	_, err := Parse("123,abc,def", ",")
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrInvalidToken))

	pe, ok := AsParseError(err)
	require.True(t, ok)
	require.Equal(t, InvalidToken, pe.Kind)
	require.Equal(t, "abc", pe.Token)
}

func TestParseRejectsNonPositiveAndEmptyTokens(t *testing.T) {
	cases := map[string]string{
		"1,-5":  "-5",
		"0":     "0",
		"1,,2":  "",
		"1.5":   "1.5",
		"12 34": "12 34",
	}
	for input, token := range cases {
		_, err := Parse(input, ",")
		pe, ok := AsParseError(err)
		require.True(t, ok, input)
		require.Equal(t, InvalidToken, pe.Kind, input)
		require.Equal(t, token, pe.Token, input)
	}
}

func TestParseEmptyInput(t *testing.T) {
	_, err := Parse("   ", ",")
	require.True(t, errors.Is(err, ErrEmptyInput))
	require.False(t, errors.Is(err, ErrInvalidToken))
}

func TestAddBatchDropsExisting(t *testing.T) {
	set := NewWorkingSet(1, 2)
	next, added := set.AddBatch([]int64{2, 3})

	require.Equal(t, []int64{1, 2, 3}, next.IDs())
	require.Equal(t, []int64{3}, added)
	require.Equal(t, []int64{1, 2}, set.IDs(), "receiver must not change")
}

func TestAddBatchCollapsesRepeatsInBatch(t *testing.T) {
	next, added := NewWorkingSet(1).AddBatch([]int64{4, 4, 1, 5, 4})
	require.Equal(t, []int64{1, 4, 5}, next.IDs())
	require.Equal(t, []int64{4, 5}, added)
}

func TestRemoveOne(t *testing.T) {
	set := NewWorkingSet(1, 2, 3)

	next := set.RemoveOne(2)
	require.Equal(t, []int64{1, 3}, next.IDs())
	require.False(t, next.Contains(2))
	require.Equal(t, []int64{1, 2, 3}, set.IDs())

	same := next.RemoveOne(99)
	require.Equal(t, []int64{1, 3}, same.IDs())
}

func TestClear(t *testing.T) {
	set := NewWorkingSet(5, 6).Clear()
	require.True(t, set.Empty())
	require.Equal(t, 0, set.Len())
	require.Equal(t, -1, set.IndexOf(5))
}

func TestIndexOf(t *testing.T) {
	set := NewWorkingSet(10, 20, 30)
	require.Equal(t, 1, set.IndexOf(20))
	require.Equal(t, -1, set.IndexOf(40))
}

func TestEncode(t *testing.T) {
	encoded, err := Encode(NewWorkingSet(5, 6, 7))
	require.NoError(t, err)
	require.Equal(t, "[5,6,7]", encoded)
}

func TestEncodeEmpty(t *testing.T) {
	_, err := Encode(WorkingSet{})
	require.True(t, errors.Is(err, ErrEmptyInput))
}

func TestDecode(t *testing.T) {
	ids, err := Decode("[5, 6, 7, 6]")
	require.NoError(t, err)
	require.Equal(t, []int64{5, 6, 7}, ids)

	_, err = Decode("[]")
	require.True(t, errors.Is(err, ErrEmptyInput))

	_, err = Decode("[1, -2]")
	require.True(t, errors.Is(err, ErrInvalidToken))

	_, err = Decode("not json")
	require.True(t, errors.Is(err, ErrMalformed))
}

func TestDecodeRejectsMalformedValues(t *testing.T) {
	for _, value := range []string{"not json", "{}", `"5"`, "[1,2] trailing", "[1]]", "[1,2][3]", "[1,"} {
		_, err := Decode(value)
		pe, ok := AsParseError(err)
		require.True(t, ok, value)
		require.Equal(t, Malformed, pe.Kind, value)
		require.False(t, errors.Is(err, ErrInvalidToken), value)
	}

	ids, err := Decode("  [4,5]\n")
	require.NoError(t, err)
	require.Equal(t, []int64{4, 5}, ids)
}

func TestOperationSequenceKeepsFirstInsertionOrder(t *testing.T) {
	set := WorkingSet{}
	set, _ = set.AddBatch([]int64{3, 1, 2})
	set = set.RemoveOne(1)
	set, _ = set.AddBatch([]int64{2, 4, 1})
	set = set.RemoveOne(3)
	set, _ = set.AddBatch([]int64{3})

	require.Equal(t, []int64{2, 4, 1, 3}, set.IDs())

	encoded, err := Encode(set)
	require.NoError(t, err)
	decoded, err := Decode(encoded)
	require.NoError(t, err)
	require.Equal(t, set.IDs(), decoded)
}
