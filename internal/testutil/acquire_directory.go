package testutil

import (
	"context"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/andrebq/authbox/users"
)

type (
	TestLog interface {
		Fatal(...interface{})
		Log(...interface{})
	}
)

// AcquireDirectory opens an empty user directory inside a temporary folder
func AcquireDirectory(ctx context.Context, t TestLog, name string) (*users.Directory, func()) {
	return AcquirePopulatedDirectory(ctx, t, name, nil)
}

// AcquirePopulatedDirectory is like AcquireDirectory but calls loader
// before returning, tests abort if loader fails.
func AcquirePopulatedDirectory(ctx context.Context, t TestLog, name string, loader func(context.Context, *users.Directory) error) (*users.Directory, func()) {
	dir, err := ioutil.TempDir("", "authbox-tests")
	if err != nil {
		t.Fatal(err)
	}
	d, err := users.OpenDirectory(ctx, filepath.Join(dir, name))
	if err != nil {
		os.RemoveAll(dir)
		t.Fatal(err)
	}
	cleanup := func() {
		err := d.Close()
		if err != nil {
			t.Log("unable to close directory", err)
		}
		err = os.RemoveAll(dir)
		if err != nil {
			t.Log("unable to cleanup temp dir", dir)
		}
	}
	if loader != nil {
		err = loader(ctx, d)
		if err != nil {
			cleanup()
			t.Fatal(err)
		}
	}
	return d, cleanup
}

// Register returns a loader that adds a user for every email/password pair
func Register(pairs ...string) func(context.Context, *users.Directory) error {
	return func(ctx context.Context, d *users.Directory) error {
		for i := 0; i+1 < len(pairs); i += 2 {
			u := users.User{Email: pairs[i]}
			err := u.SetPassword(pairs[i+1])
			if err != nil {
				return err
			}
			err = d.Add(ctx, &u)
			if err != nil {
				return err
			}
		}
		return nil
	}
}
