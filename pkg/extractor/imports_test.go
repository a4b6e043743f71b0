package extractor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildImportTable(t *testing.T) {
	e := newTestExtractor(t)
	file := parseSource(t, "Card.tsx", `import React from 'react';
import { CardProps, Size as CardSize } from "./types";
import type { Theme } from '@ui/theme';
import * as utils from './utils';
import './card.css';
`)

	table, err := e.BuildImportTable(file)
	require.NoError(t, err)

	assert.Equal(t, ImportTable{
		"React":     {LocalName: "React", ModuleSpecifier: "react", ImportedName: "default"},
		"CardProps": {LocalName: "CardProps", ModuleSpecifier: "./types", ImportedName: "CardProps"},
		"CardSize":  {LocalName: "CardSize", ModuleSpecifier: "./types", ImportedName: "Size"},
		"Theme":     {LocalName: "Theme", ModuleSpecifier: "@ui/theme", ImportedName: "Theme"},
	}, table)
	assert.True(t, table["React"].IsDefault())
	assert.False(t, table["CardSize"].IsDefault())
}

func TestBuildImportTable_LastImportWins(t *testing.T) {
	e := newTestExtractor(t)
	file := parseSource(t, "Card.tsx", `import { CardProps } from './old';
import { CardProps } from './new';
`)

	table, err := e.BuildImportTable(file)
	require.NoError(t, err)
	require.Contains(t, table, "CardProps")
	assert.Equal(t, "./new", table["CardProps"].ModuleSpecifier)
}

func TestBuildImportTable_DefaultAndNamedTogether(t *testing.T) {
	e := newTestExtractor(t)
	file := parseSource(t, "Card.jsx", `import Button, { ButtonProps } from '@ui/button';
`)

	table, err := e.BuildImportTable(file)
	require.NoError(t, err)
	assert.Equal(t, "@ui/button", table["Button"].ModuleSpecifier)
	assert.Equal(t, "@ui/button", table["ButtonProps"].ModuleSpecifier)
}

func TestBuildImportTable_NoImports(t *testing.T) {
	e := newTestExtractor(t)
	file := parseSource(t, "Card.tsx", "export default function Card() { return null; }\n")

	table, err := e.BuildImportTable(file)
	require.NoError(t, err)
	assert.Empty(t, table)
}
