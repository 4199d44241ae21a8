// Copyright © 2018 The ELPS authors

package cmd

import (
	"testing"

	"github.com/luthersystems/tinylisp/parser"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWarnReplReader(t *testing.T) {
	log, hook := test.NewNullLogger()
	s := testSettings()
	assert.False(t, warnReplReader(log, s))
	assert.Empty(t, hook.AllEntries())

	s.Reader = parser.ReaderParsec
	assert.True(t, warnReplReader(log, s))
	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.WarnLevel, entry.Level)
	assert.Equal(t, parser.ReaderParsec, entry.Data[keyReader])
	assert.Equal(t, "The REPL reads input with the rdparser reader", entry.Message)
}

func TestReplOptions(t *testing.T) {
	log, _ := test.NewNullLogger()
	assert.Len(t, replOptions(testSettings(), log), 3)
}
