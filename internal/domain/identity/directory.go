package identity

import (
	"errors"
	"strings"
	"sync"
)

// ErrNotFound is returned when no user or patient matches the requested key.
var ErrNotFound = errors.New("record not found")

// UserDirectory is the canonical in-memory store of login accounts. All
// mutating operations take the write lock so the directory can be shared by
// concurrent request handlers.
type UserDirectory struct {
	mu    sync.RWMutex
	users []*User
}

// NewUserDirectory returns an empty user directory.
func NewUserDirectory() *UserDirectory {
	return &UserDirectory{}
}

// Create registers a new account. It fails when the username is malformed,
// the password is too short, or the username is already taken.
func (d *UserDirectory) Create(username, password string, role Role, person Person) (*User, error) {
	if !ValidUsername(username) {
		return nil, errors.New("username must be 4-20 letters, digits or underscores")
	}
	if !ValidPassword(password) {
		return nil, ErrWeakPassword
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, u := range d.users {
		if strings.EqualFold(u.Username, username) {
			return nil, errors.New("username already taken")
		}
	}
	u := NewUser(username, password, role, person)
	d.users = append(d.users, u)
	return u, nil
}

// Add appends an existing account. Adding a user whose id is already present
// is a no-op.
func (d *UserDirectory) Add(u *User) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, existing := range d.users {
		if existing.ID == u.ID {
			return
		}
	}
	d.users = append(d.users, u)
}

// Remove deletes the account with the given id, reporting whether anything
// was removed.
func (d *UserDirectory) Remove(id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i, u := range d.users {
		if u.ID == id {
			d.users = append(d.users[:i], d.users[i+1:]...)
			return true
		}
	}
	return false
}

// FindByID returns the account with the given id.
func (d *UserDirectory) FindByID(id string) (*User, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, u := range d.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, ErrNotFound
}

// FindByUsername returns the account with the given username. The match is
// case insensitive.
func (d *UserDirectory) FindByUsername(username string) (*User, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, u := range d.users {
		if strings.EqualFold(u.Username, username) {
			return u, nil
		}
	}
	return nil, ErrNotFound
}

// FindByPersonID returns the account tied to the given person record.
func (d *UserDirectory) FindByPersonID(personID string) (*User, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, u := range d.users {
		if u.Person.ID == personID {
			return u, nil
		}
	}
	return nil, ErrNotFound
}

// UsernameExists reports whether any account holds the username.
func (d *UserDirectory) UsernameExists(username string) bool {
	_, err := d.FindByUsername(username)
	return err == nil
}

// Authenticate checks the credentials and returns the account on success.
// Unknown usernames, disabled accounts, and wrong passwords all return nil;
// the caller is told nothing about which check failed. A successful login is
// stamped on the account.
func (d *UserDirectory) Authenticate(username, password string) *User {
	u, err := d.FindByUsername(username)
	if err != nil {
		return nil
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if !u.Active || !u.CheckPassword(password) {
		return nil
	}
	u.RecordLogin()
	return u
}

// All returns a snapshot of every account. The returned slice is a copy;
// mutating it does not affect the directory.
func (d *UserDirectory) All() []*User {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]*User, len(d.users))
	copy(out, d.users)
	return out
}

func (d *UserDirectory) filter(keep func(*User) bool) []*User {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := []*User{}
	for _, u := range d.users {
		if keep(u) {
			out = append(out, u)
		}
	}
	return out
}

// ByRole returns the accounts holding the given role.
func (d *UserDirectory) ByRole(role Role) []*User {
	return d.filter(func(u *User) bool { return u.Role == role })
}

// ActiveUsers returns the accounts that can log in.
func (d *UserDirectory) ActiveUsers() []*User {
	return d.filter(func(u *User) bool { return u.Active })
}

// InactiveUsers returns the disabled accounts.
func (d *UserDirectory) InactiveUsers() []*User {
	return d.filter(func(u *User) bool { return !u.Active })
}

// Count returns the number of accounts in the directory.
func (d *UserDirectory) Count() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.users)
}

// ActiveCount returns how many accounts can log in.
func (d *UserDirectory) ActiveCount() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	n := 0
	for _, u := range d.users {
		if u.Active {
			n++
		}
	}
	return n
}

// ActivateUser re-enables an account by id, reporting success.
func (d *UserDirectory) ActivateUser(id string) bool {
	u, err := d.FindByID(id)
	if err != nil {
		return false
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	u.Activate()
	return true
}

// DeactivateUser disables an account by id, reporting success.
func (d *UserDirectory) DeactivateUser(id string) bool {
	u, err := d.FindByID(id)
	if err != nil {
		return false
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	u.Deactivate()
	return true
}

// ChangePassword replaces an account's password after verifying the current
// one.
func (d *UserDirectory) ChangePassword(id, current, next string) error {
	u, err := d.FindByID(id)
	if err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return u.ChangePassword(current, next)
}

// Export returns the backing entities for snapshot persistence.
func (d *UserDirectory) Export() []*User {
	return d.All()
}

// Restore replaces the directory contents, used when loading a snapshot.
func (d *UserDirectory) Restore(users []*User) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.users = make([]*User, len(users))
	copy(d.users, users)
}

// Clear empties the directory.
func (d *UserDirectory) Clear() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.users = nil
}

// IsEmpty reports whether the directory holds no accounts.
func (d *UserDirectory) IsEmpty() bool {
	return d.Count() == 0
}
