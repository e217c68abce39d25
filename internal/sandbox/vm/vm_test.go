package vm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateModuleAcceptsTSX(t *testing.T) {
	v := New(Config{})

	err := v.ValidateModule("src/App.tsx", `
import React from "react";

export default function App() {
  const [count, setCount] = React.useState(0);
  return <button onClick={() => setCount(count + 1)}>{count}</button>;
}
`)
	assert.NoError(t, err)
}

func TestValidateModuleRejectsEmpty(t *testing.T) {
	v := New(Config{})

	assert.ErrorIs(t, v.ValidateModule("src/App.tsx", "   \n\t"), ErrEmptySource)
}

func TestValidateModuleRejectsProse(t *testing.T) {
	v := New(Config{})

	err := v.ValidateModule("src/App.tsx", "Here is the fixed version of your component:")
	assert.ErrorIs(t, err, ErrLooksLikeProse)
}

func TestValidateModuleRejectsBrokenSyntax(t *testing.T) {
	v := New(Config{})

	err := v.ValidateModule("src/App.tsx", "export default function ( { return <div>; }")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrEmptySource)
}

func TestValidateModuleRejectsOversized(t *testing.T) {
	v := New(Config{MaxSourceBytes: 10})

	err := v.ValidateModule("src/App.tsx", "export default function App() { return null; }")
	assert.ErrorIs(t, err, ErrTooLarge)
}
