package controllers

import (
	"errors"
	"net/http"

	"github.com/graphql-go/graphql"

	"github.com/patial10/Construction-App/app/models"
	"github.com/patial10/Construction-App/app/services"
	gqlhttp "github.com/patial10/Construction-App/pkg/graphql"
)

// NewGraphQLHandler builds the read-only GraphQL query surface over the
// customer service: `customers` and `customer(id: String!)`. Mutations stay
// REST-only.
func NewGraphQLHandler(service *services.CustomerService) (http.HandlerFunc, error) {
	orderType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Order",
		Fields: graphql.Fields{
			"category": &graphql.Field{Type: graphql.String},
			"quantity": &graphql.Field{Type: graphql.Int},
			"price":    &graphql.Field{Type: graphql.Float},
		},
	})

	customerType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Customer",
		Fields: graphql.Fields{
			"id": &graphql.Field{
				Type: graphql.String,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					customer, ok := p.Source.(models.Customer)
					if !ok {
						return nil, errors.New("unexpected source type")
					}
					return customer.ID.Hex(), nil
				},
			},
			"name":    &graphql.Field{Type: graphql.String},
			"email":   &graphql.Field{Type: graphql.String},
			"phone":   &graphql.Field{Type: graphql.String},
			"address": &graphql.Field{Type: graphql.String},
			"orders":  &graphql.Field{Type: graphql.NewList(orderType)},
		},
	})

	rootQuery := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"customers": &graphql.Field{
				Type: graphql.NewList(customerType),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return service.List(p.Context)
				},
			},
			"customer": &graphql.Field{
				Type: customerType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id, _ := p.Args["id"].(string)
					return service.Get(p.Context, id)
				},
			},
		},
	})

	schema, err := gqlhttp.NewSchema(rootQuery)
	if err != nil {
		return nil, err
	}
	return gqlhttp.Handler(schema), nil
}
