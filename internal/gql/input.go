package gql

import (
	"strconv"

	"github.com/google/uuid"
)

// NewClientMutationID returns a fresh token for the clientMutationId field.
// The server echoes it back; the client does not rely on it.
var NewClientMutationID = func() string { return uuid.NewString() }

// idValue sends canonical integer ids as numbers and anything else, "007"
// included, as the string it was given.
func idValue(id string) interface{} {
	if n, err := strconv.ParseInt(id, 10, 64); err == nil && strconv.FormatInt(n, 10) == id {
		return n
	}
	return id
}

func wrapInput(fields map[string]interface{}) Variables {
	fields["clientMutationId"] = NewClientMutationID()
	return Variables{"input": fields}
}

// CreateTodoVars builds the variables for CreateTodo.
func CreateTodoVars(title, content string) Variables {
	return wrapInput(map[string]interface{}{
		"title":   title,
		"content": content,
	})
}

// UpdateTodoVars builds the variables for UpdateTodo.
func UpdateTodoVars(id, title, content string) Variables {
	return wrapInput(map[string]interface{}{
		"id":      idValue(id),
		"title":   title,
		"content": content,
	})
}

// DeleteTodoVars builds the variables for DeleteTodo.
func DeleteTodoVars(id string) Variables {
	return wrapInput(map[string]interface{}{"id": idValue(id)})
}

// SignInVars builds the variables for SignInUser.
func SignInVars(email, password string) Variables {
	return wrapInput(map[string]interface{}{
		"email":    email,
		"password": password,
	})
}

// SignUpVars builds the variables for SignUpUser. The account fields travel
// in a nested `input` object next to clientMutationId.
func SignUpVars(username, email, password, confirmation string) Variables {
	return wrapInput(map[string]interface{}{
		"input": map[string]interface{}{
			"username":             username,
			"email":                email,
			"password":             password,
			"passwordConfirmation": confirmation,
		},
	})
}

// SignOutVars builds the variables for SignOutUser.
func SignOutVars() Variables {
	return wrapInput(map[string]interface{}{})
}
