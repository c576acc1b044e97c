package enum

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("create a enum of string", func(t *testing.T) {
		type EnumString string

		bar := New(EnumString("bar"))
		require.Equal(t, bar, EnumString("bar"))

		v, err := ToEnum[EnumString]("bar")
		require.NoError(t, err)
		require.Equal(t, v, bar)

		_, err = ToEnum[EnumString]("foo")
		require.Error(t, err)
	})
}

func TestValues(t *testing.T) {
	t.Run("values keep registration order", func(t *testing.T) {
		type OrderedEnum string

		first := New(OrderedEnum("first"))
		second := New(OrderedEnum("second"))
		New(OrderedEnum("second"))

		require.Equal(t, []OrderedEnum{first, second}, Values[OrderedEnum]())
	})

	t.Run("unknown type gives no values", func(t *testing.T) {
		type UnregisteredEnum string

		require.Empty(t, Values[UnregisteredEnum]())
	})
}
