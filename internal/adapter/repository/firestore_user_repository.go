package repository

import (
	"context"
	"net/url"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"foodstore/internal/domain/entity"
	"foodstore/internal/domain/repository"
	"foodstore/pkg/errors"
)

const (
	usersCollection     = "users"
	usernamesCollection = "usernames"
)

type usernameReservation struct {
	UID string `firestore:"uid"`
}

// usernameDocID maps a username onto a legal document id: no slashes,
// and never "." or a reserved __name__.
func usernameDocID(username string) string {
	return "u:" + url.PathEscape(username)
}

type firestoreUserRepository struct {
	client *firestore.Client
}

func NewFirestoreUserRepository(client *firestore.Client) repository.UserRepository {
	return &firestoreUserRepository{
		client: client,
	}
}

// Create writes the user and reserves usernames/{username} in one
// transaction, so two sign-ups racing for a username cannot both commit.
// It fails with Conflict when the username is reserved or the id exists.
func (r *firestoreUserRepository) Create(ctx context.Context, user *entity.User) error {
	userRef := r.client.Collection(usersCollection).Doc(user.ID)
	nameRef := r.client.Collection(usernamesCollection).Doc(usernameDocID(user.Username))

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		if _, err := tx.Get(nameRef); err == nil {
			return errors.Conflict("Username already taken")
		} else if status.Code(err) != codes.NotFound {
			return err
		}

		if err := tx.Create(nameRef, usernameReservation{UID: user.ID}); err != nil {
			return err
		}
		return tx.Create(userRef, user)
	})
	if err != nil {
		if _, ok := errors.As(err); ok {
			return err
		}
		if status.Code(err) == codes.AlreadyExists {
			return errors.Conflict("User already registered")
		}
		return errors.StoreFailure("Failed to create user", err)
	}
	return nil
}

func (r *firestoreUserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	doc, err := r.client.Collection(usersCollection).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("User", err)
		}
		return nil, errors.StoreFailure("Failed to fetch user", err)
	}

	var user entity.User
	if err := doc.DataTo(&user); err != nil {
		return nil, errors.Validation("Malformed user document", err)
	}
	user.ID = doc.Ref.ID

	return &user, nil
}

func (r *firestoreUserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.findOne(ctx, "email", email)
}

func (r *firestoreUserRepository) GetByUsername(ctx context.Context, username string) (*entity.User, error) {
	return r.findOne(ctx, "username", username)
}

func (r *firestoreUserRepository) findOne(ctx context.Context, field, value string) (*entity.User, error) {
	iter := r.client.Collection(usersCollection).Where(field, "==", value).Limit(1).Documents(ctx)
	defer iter.Stop()

	doc, err := iter.Next()
	if err != nil {
		if err == iterator.Done {
			return nil, errors.NotFound("User", nil)
		}
		return nil, errors.StoreFailure("Failed to query users", err)
	}

	var user entity.User
	if err := doc.DataTo(&user); err != nil {
		return nil, errors.Validation("Malformed user document", err)
	}
	user.ID = doc.Ref.ID

	return &user, nil
}
