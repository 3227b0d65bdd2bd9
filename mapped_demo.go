// mapped_demo.go - Working demonstration of the mapped collection wrapper
// Shows a public profile schema layered over an internal account schema
// without changing any call site shapes.

package mongomap

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// demoAccount is the storage shape: what actually lands in MongoDB.
type demoAccount struct {
	ID       string `bson:"_id"`
	FullName string `bson:"full_name"`
	Email    string `bson:"email"`
	Plan     string `bson:"plan"`
}

// demoProfile is the public shape: what callers of the mapped handle see.
type demoProfile struct {
	ID          string `bson:"_id"`
	DisplayName string `bson:"displayName"`
	Contact     string `bson:"contact"`
}

// demoFieldNames maps public field names to their storage counterparts.
var demoFieldNames = map[string]string{
	"displayName": "full_name",
	"contact":     "email",
}

// renameKeys rewrites top-level bson.M keys per names, leaving unknown keys
// and non-map values alone.
func renameKeys(doc interface{}, names map[string]string) interface{} {
	m, ok := doc.(bson.M)
	if !ok {
		return doc
	}
	out := bson.M{}
	for k, v := range m {
		if mapped, ok := names[k]; ok {
			k = mapped
		}
		out[k] = v
	}
	return out
}

// demoTransforms converts between the two demo shapes. Every function is
// total: any profile value has an account rendition and vice versa.
func demoTransforms() Transforms[demoAccount, demoProfile] {
	return Transforms[demoAccount, demoProfile]{
		PreInsert: func(p demoProfile) demoAccount {
			id := p.ID
			if id == "" {
				id = uuid.NewString()
			}
			return demoAccount{
				ID:       id,
				FullName: p.DisplayName,
				Email:    strings.ToLower(p.Contact),
				Plan:     "free",
			}
		},
		PreUpdate: func(update interface{}) interface{} {
			m, ok := update.(bson.M)
			if !ok {
				return update
			}
			out := bson.M{}
			for op, fields := range m {
				out[op] = renameKeys(fields, demoFieldNames)
			}
			return out
		},
		PreReplace: func(p demoProfile) demoAccount {
			return demoAccount{
				ID:       p.ID,
				FullName: p.DisplayName,
				Email:    strings.ToLower(p.Contact),
				Plan:     "free",
			}
		},
		PostFind: func(a demoAccount) demoProfile {
			return demoProfile{
				ID:          a.ID,
				DisplayName: a.FullName,
				Contact:     a.Email,
			}
		},
		DeleteFilter: func(filter interface{}) interface{} {
			return renameKeys(filter, demoFieldNames)
		},
	}
}

// RunMappedDemo connects to MongoDB and walks through the wrapper end to end:
// typed adapter, mapped handle, inserts, reads, a find-and-update and
// cleanup. Intended as living documentation, mirroring how an application
// would wire the layers together.
func RunMappedDemo(mongoURL string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURL))
	if err != nil {
		return err
	}
	defer client.Disconnect(ctx)

	coll := client.Database("mongomap_demo").Collection("profiles")
	defer coll.Drop(ctx)

	accounts := NewTyped[demoAccount](coll)
	profiles := Wrap(accounts, demoTransforms())

	fmt.Println("inserting profiles...")
	if err := profiles.Insert(ctx,
		demoProfile{DisplayName: "Ada Lovelace", Contact: "Ada@Example.com"},
		demoProfile{DisplayName: "Alan Turing", Contact: "Alan@Example.com"},
	); err != nil {
		return err
	}

	fmt.Println("reading one back through the public shape...")
	found, err := profiles.FindOne(ctx, bson.M{"email": "ada@example.com"})
	if err != nil {
		return err
	}
	fmt.Printf("  found: %s <%s>\n", found.DisplayName, found.Contact)

	fmt.Println("listing all profiles lazily...")
	cur, err := profiles.Find(ctx, nil)
	if err != nil {
		return err
	}
	all, err := cur.All(ctx)
	if err != nil {
		return err
	}
	for _, p := range all {
		fmt.Printf("  %s <%s>\n", p.DisplayName, p.Contact)
	}

	fmt.Println("renaming via find-and-update...")
	res, err := profiles.FindOneAndUpdate(ctx,
		bson.M{"_id": found.ID},
		bson.M{"$set": bson.M{"displayName": "Countess Lovelace"}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)
	if err != nil {
		return err
	}
	if res.Value != nil {
		fmt.Printf("  now known as: %s\n", res.Value.DisplayName)
	}

	fmt.Println("removing by public field name...")
	if _, err := profiles.DeleteMany(ctx, bson.M{"contact": "alan@example.com"}); err != nil {
		return err
	}

	n, err := profiles.Count(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("done, %d profile(s) left\n", n)
	return nil
}
