package users

import (
	"context"
	"errors"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const collection = "users"

// FirestoreRepo keeps users in the users/<uid> documents.
type FirestoreRepo struct {
	Client *firestore.Client
}

func (r *FirestoreRepo) Create(ctx context.Context, user User) error {
	if _, err := r.GetByEmail(ctx, user.Email); err == nil {
		return ErrEmailTaken
	} else if !errors.Is(err, ErrNotFound) {
		return err
	}
	_, err := r.Client.Collection(collection).Doc(user.UID).Create(ctx, user)
	if status.Code(err) == codes.AlreadyExists {
		return ErrEmailTaken
	}
	return err
}

func (r *FirestoreRepo) GetByID(ctx context.Context, uid string) (User, error) {
	snap, err := r.Client.Collection(collection).Doc(uid).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return User{}, ErrNotFound
		}
		return User{}, err
	}
	var user User
	if err := snap.DataTo(&user); err != nil {
		return User{}, err
	}
	return user, nil
}

func (r *FirestoreRepo) GetByEmail(ctx context.Context, email string) (User, error) {
	iter := r.Client.Collection(collection).Where("email", "==", NormalizeEmail(email)).Limit(1).Documents(ctx)
	defer iter.Stop()
	snap, err := iter.Next()
	if err == iterator.Done {
		return User{}, ErrNotFound
	}
	if err != nil {
		return User{}, err
	}
	var user User
	if err := snap.DataTo(&user); err != nil {
		return User{}, err
	}
	return user, nil
}

func (r *FirestoreRepo) TouchLastLogin(ctx context.Context, uid string, at time.Time) error {
	return r.update(ctx, uid, []firestore.Update{{Path: "lastLogin", Value: at}})
}

func (r *FirestoreRepo) IncrementResumeCount(ctx context.Context, uid string) error {
	return r.update(ctx, uid, []firestore.Update{{Path: "resumeCount", Value: firestore.Increment(1)}})
}

func (r *FirestoreRepo) update(ctx context.Context, uid string, updates []firestore.Update) error {
	_, err := r.Client.Collection(collection).Doc(uid).Update(ctx, updates)
	if status.Code(err) == codes.NotFound {
		return ErrNotFound
	}
	return err
}
