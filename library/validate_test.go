package library

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateBookParams(t *testing.T) {
	tests := []struct {
		name    string
		in      BookParams
		wantErr bool
		want    BookParams
	}{
		{name: "blank title", in: BookParams{Title: "   "}, wantErr: true},
		{name: "empty title", in: BookParams{}, wantErr: true},
		{
			name: "trims fields",
			in:   BookParams{Title: " T ", Author: " A ", ISBN: " 123 ", Publisher: " P "},
			want: BookParams{Title: "T", Author: "A", ISBN: "123", Publisher: "P"},
		},
		{
			name: "optional fields may be empty",
			in:   BookParams{Title: "T"},
			want: BookParams{Title: "T"},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := validateBookParams("op", tc.in)
			if tc.wantErr {
				require.Error(t, err)
				assert.True(t, IsInvalidArgument(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestValidateMemberParams(t *testing.T) {
	tests := []struct {
		name      string
		in        MemberParams
		wantErr   bool
		wantPhone string
	}{
		{name: "blank name", in: MemberParams{Name: " "}, wantErr: true},
		{name: "bad email", in: MemberParams{Name: "Ann", Email: "nope"}, wantErr: true},
		{name: "email missing domain dot", in: MemberParams{Name: "Ann", Email: "ann@host"}, wantErr: true},
		{name: "email with spaces", in: MemberParams{Name: "Ann", Email: "a nn@example.com"}, wantErr: true},
		{name: "good email", in: MemberParams{Name: "Ann", Email: "ann@example.com"}},
		{name: "phone too short", in: MemberParams{Name: "Ann", Phone: "555-01"}, wantErr: true},
		{name: "phone normalized", in: MemberParams{Name: "Ann", Phone: "+1 (555) 010-9999"}, wantPhone: "15550109999"},
		{name: "phone plain digits", in: MemberParams{Name: "Ann", Phone: "5550109"}, wantPhone: "5550109"},
		{name: "no optional fields", in: MemberParams{Name: "Ann"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := validateMemberParams("op", tc.in)
			if tc.wantErr {
				require.Error(t, err)
				assert.True(t, IsInvalidArgument(err))
				return
			}
			require.NoError(t, err)
			if tc.wantPhone != "" {
				assert.Equal(t, tc.wantPhone, got.Phone)
			}
		})
	}
}
