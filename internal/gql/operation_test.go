package gql

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefinitionsAreNamedAfterTheirDocuments(t *testing.T) {
	for op, d := range definitions {
		prefix := "query "
		if d.kind == KindMutation {
			prefix = "mutation "
		}
		assert.Truef(t, strings.HasPrefix(d.document, prefix+d.name), "%s document starts with %q", op, prefix+d.name)
		assert.Equal(t, d.name, op.String())
	}
}

func TestTodoMutationsRefetchTodos(t *testing.T) {
	for _, op := range []Operation{CreateTodo, UpdateTodo, DeleteTodo} {
		assert.Equal(t, []Operation{Todos}, op.Refetches(), op.String())
	}
	for _, op := range []Operation{Todos, SignInUser, SignUpUser, SignOutUser} {
		assert.Empty(t, op.Refetches(), op.String())
	}
}

func TestKind(t *testing.T) {
	assert.Equal(t, KindQuery, Todos.Kind())
	for _, op := range []Operation{CreateTodo, UpdateTodo, DeleteTodo, SignInUser, SignUpUser, SignOutUser} {
		assert.Equal(t, KindMutation, op.Kind(), op.String())
	}
	assert.Equal(t, KindQuery, Operation(99).Kind())
}

func TestFragmentsAreSpreadAndDefined(t *testing.T) {
	doc := Todos.Document()
	for _, frag := range []string{"TodosFragment", "HeaderFragment"} {
		assert.Contains(t, doc, "..."+frag)
		assert.Contains(t, doc, "fragment "+frag+" on Query")
	}
	assert.Contains(t, CreateTodo.Document(), "fragment CreateTodoFragment on CreateTodoPayload")
}

func TestUnknownOperation(t *testing.T) {
	op := Operation(99)
	assert.Equal(t, "Operation(99)", op.String())
	assert.Empty(t, op.Document())
}
