// Package gql is the client side of the todo GraphQL API.
//
// Every operation the client can run is declared once in the definitions
// table below, tagged with an Operation constant. Callers pick the tag; the
// Client looks up the document, runs it through an Executor and maps the raw
// response into the typed result fields for that operation.
package gql

import "fmt"

// Operation tags a GraphQL operation known to the client.
type Operation int

const (
	Todos Operation = iota + 1
	CreateTodo
	UpdateTodo
	DeleteTodo
	SignInUser
	SignUpUser
	SignOutUser
)

// Kind distinguishes queries from mutations.
type Kind int

const (
	KindQuery Kind = iota
	KindMutation
)

type definition struct {
	name     string
	kind     Kind
	document string
	// refetch lists queries to re-run after this mutation succeeds.
	refetch []Operation
}

const todosFragment = `
fragment TodosFragment on Query {
  todos {
    id
    title
    content
  }
}`

const headerFragment = `
fragment HeaderFragment on Query {
  todoCount
}`

const createTodoFragment = `
fragment CreateTodoFragment on CreateTodoPayload {
  errors
  todo {
    id
    title
    content
  }
}`

const updateTodoFragment = `
fragment UpdateTodoFragment on UpdateTodoPayload {
  errors
  todo {
    id
    title
    content
  }
}`

const deleteTodoFragment = `
fragment DeleteTodoFragment on DeleteTodoPayload {
  errors
  todo {
    id
  }
}`

var definitions = map[Operation]definition{
	Todos: {
		name: "Todos",
		kind: KindQuery,
		document: `query Todos {
  ...TodosFragment
  ...HeaderFragment
}` + todosFragment + headerFragment,
	},
	CreateTodo: {
		name: "CreateTodo",
		kind: KindMutation,
		document: `mutation CreateTodo($input: CreateTodoInput!) {
  createTodo(input: $input) {
    ...CreateTodoFragment
  }
}` + createTodoFragment,
		refetch: []Operation{Todos},
	},
	UpdateTodo: {
		name: "UpdateTodo",
		kind: KindMutation,
		document: `mutation UpdateTodo($input: UpdateTodoInput!) {
  updateTodo(input: $input) {
    ...UpdateTodoFragment
  }
}` + updateTodoFragment,
		refetch: []Operation{Todos},
	},
	DeleteTodo: {
		name: "DeleteTodo",
		kind: KindMutation,
		document: `mutation DeleteTodo($input: DeleteTodoInput!) {
  deleteTodo(input: $input) {
    ...DeleteTodoFragment
  }
}` + deleteTodoFragment,
		refetch: []Operation{Todos},
	},
	SignInUser: {
		name: "SignInUser",
		kind: KindMutation,
		document: `mutation SignInUser($input: SignInInput!) {
  signIn(input: $input) {
    user {
      id
      email
    }
  }
}`,
	},
	SignUpUser: {
		name: "SignUpUser",
		kind: KindMutation,
		document: `mutation SignUpUser($input: SignUpInput!) {
  signUp(input: $input) {
    user {
      id
      email
    }
  }
}`,
	},
	SignOutUser: {
		name: "SignOutUser",
		kind: KindMutation,
		document: `mutation SignOutUser($input: SignOutInput!) {
  signOut(input: $input) {
    success
  }
}`,
	},
}

func (o Operation) def() (definition, bool) {
	d, ok := definitions[o]
	return d, ok
}

// String returns the GraphQL operation name.
func (o Operation) String() string {
	if d, ok := o.def(); ok {
		return d.name
	}
	return fmt.Sprintf("Operation(%d)", int(o))
}

// Kind reports whether o is a query or a mutation. Unknown tags report KindQuery.
func (o Operation) Kind() Kind {
	d, _ := o.def()
	return d.kind
}

// Document returns the full GraphQL document, fragments included.
func (o Operation) Document() string {
	d, _ := o.def()
	return d.document
}

// Refetches returns the queries invalidated by a successful o.
func (o Operation) Refetches() []Operation {
	d, _ := o.def()
	return append([]Operation(nil), d.refetch...)
}
