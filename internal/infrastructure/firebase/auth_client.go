package firebase

import (
	"context"

	"firebase.google.com/go/v4/auth"

	"agrotrust/internal/domain/entity"
)

// RoleClaim is the custom claim that carries the marketplace role.
const RoleClaim = "role"

type FirebaseAuthClient struct {
	client *auth.Client
}

func NewFirebaseAuthClient(client *auth.Client) *FirebaseAuthClient {
	return &FirebaseAuthClient{
		client: client,
	}
}

// VerifyToken checks an ID token and returns the caller. Tokens without a
// valid role claim belong to consumers.
func (f *FirebaseAuthClient) VerifyToken(ctx context.Context, idToken string) (entity.Actor, error) {
	token, err := f.client.VerifyIDToken(ctx, idToken)
	if err != nil {
		return entity.Actor{}, err
	}

	role := entity.RoleConsumer
	if claim, ok := token.Claims[RoleClaim].(string); ok {
		if r := entity.Role(claim); r.Valid() && r != entity.RoleSystem {
			role = r
		}
	}
	return entity.Actor{ID: token.UID, Role: role}, nil
}

// GenerateDevToken mints a custom token carrying the role claim, for local
// testing against a real project.
func (f *FirebaseAuthClient) GenerateDevToken(ctx context.Context, uid string, role entity.Role) (string, error) {
	return f.client.CustomTokenWithClaims(ctx, uid, map[string]interface{}{RoleClaim: string(role)})
}
