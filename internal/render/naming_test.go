package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCapitalize(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{in: "users", want: "Users"},
		{in: "user_posts", want: "User_posts"},
		{in: "USERS", want: "Users"},
		{in: "UserPosts", want: "Userposts"},
		{in: "élan", want: "Élan"},
		{in: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Capitalize(tt.in))
		})
	}
}

func TestLowerWords(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{in: "users", want: "users"},
		{in: "user_posts", want: "user posts"},
		{in: "user-posts", want: "user posts"},
		{in: "UserPosts", want: "user posts"},
		{in: "userPosts", want: "user posts"},
		{in: "XMLHttpRequests", want: "xml http requests"},
		{in: "orders2024", want: "orders 2024"},
		{in: "__audit__log__", want: "audit log"},
		{in: "USERS", want: "users"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, LowerWords(tt.in))
		})
	}
}
