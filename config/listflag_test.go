package config

import (
	"testing"

	"gopkg.in/yaml.v2"

	"github.com/google/go-cmp/cmp"
)

func TestListFlag(t *testing.T) {
	const yamlList = `- foo
- bar
- baz`

	t.Run("custom separator", func(t *testing.T) {
		var (
			expected = []string{"foo", "bar", "baz"}
			current  = newListFlag(":")
		)

		if err := current.Set("foo:bar:baz"); err != nil {
			t.Fatal(err)
		}

		if cmp.Equal(expected, current.values) == false {
			t.Error("failed to parse flags", current.values)
		}

		if err := yaml.Unmarshal([]byte(yamlList), current); err != nil {
			t.Fatal(err)
		}

		if cmp.Equal(expected, current.values) == false {
			t.Error("failed to parse yaml", current.values)
		}

		if current.value != "foo:bar:baz" {
			t.Error("invalid value composed by yaml parser")
		}
	})

	t.Run("allowed values", func(t *testing.T) {
		current := commaListFlag("foo", "bar")
		if err := current.Set("foo,bar"); err != nil {
			t.Fatal(err)
		}

		if err := current.Set("foo,baz"); err == nil {
			t.Error("failed to fail")
		}

		if err := yaml.Unmarshal([]byte(yamlList), current); err == nil {
			t.Error("failed to fail")
		}
	})

	t.Run("empty", func(t *testing.T) {
		current := commaListFlag()
		if err := current.Set(""); err != nil {
			t.Fatal(err)
		}

		if len(current.Values()) != 0 || current.String() != "" {
			t.Error("failed to reset", current.values)
		}
	})
}
