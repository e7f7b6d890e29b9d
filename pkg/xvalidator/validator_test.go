package xvalidator

import (
	"strings"
	"testing"

	"github.com/questx-lab/classroom/pkg/errorx"
	"github.com/stretchr/testify/require"
)

type message struct {
	Text string `validate:"notblank,max=10"`
}

func TestStruct(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		wantErr bool
	}{
		{name: "ok", text: "hello"},
		{name: "empty", text: "", wantErr: true},
		{name: "whitespace", text: " \t\n", wantErr: true},
		{name: "too long", text: strings.Repeat("a", 11), wantErr: true},
		{name: "runes are counted", text: strings.Repeat("é", 10)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Struct(message{Text: tt.text})
			if tt.wantErr {
				require.True(t, errorx.Is(err, errorx.BadRequest))
			} else {
				require.NoError(t, err)
			}
		})
	}
}
