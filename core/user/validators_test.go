package user

import (
	"testing"

	"github.com/academiplan/backend/core"
)

func TestNewUser_Validate(t *testing.T) {
	validate, translator := core.NewValidator()
	RegisterValidators(validate, translator)

	tests := []struct {
		name    string
		new     NewUser
		wantErr bool
	}{
		{name: "valid", new: NewUser{Name: "Awa", Username: "awa_01", Email: "awa@test.cd", Password: "v3ryS3cur3!"}},
		{name: "valid without email", new: NewUser{Username: "awa_01", Password: "v3ryS3cur3!"}},
		{name: "username required", new: NewUser{Password: "v3ryS3cur3!"}, wantErr: true},
		{name: "username too short", new: NewUser{Username: "aw", Password: "v3ryS3cur3!"}, wantErr: true},
		{name: "username bad chars", new: NewUser{Username: "awa-01!", Password: "v3ryS3cur3!"}, wantErr: true},
		{name: "bad email", new: NewUser{Username: "awa_01", Email: "not-an-email", Password: "v3ryS3cur3!"}, wantErr: true},
		{name: "password required", new: NewUser{Username: "awa_01"}, wantErr: true},
		{name: "password too short", new: NewUser{Username: "awa_01", Password: "sh0rt!"}, wantErr: true},
		{name: "password with spaces", new: NewUser{Username: "awa_01", Password: "v3ry S3cur3!"}, wantErr: true},
		{name: "password all numeric", new: NewUser{Username: "awa_01", Password: "83904271904"}, wantErr: true},
		{name: "password similar to username", new: NewUser{Username: "awakenings", Password: "awakenings1"}, wantErr: true},
		{name: "password similar to email", new: NewUser{Username: "awa_01", Email: "awa@test.cd", Password: "awa@test.cd1"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.new.Validate(validate); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestUser_SetCheckPassword(t *testing.T) {
	var usr User
	if err := usr.SetPassword("v3ryS3cur3!"); err != nil {
		t.Fatalf("SetPassword(): %v", err)
	}
	if err := usr.CheckPassword("v3ryS3cur3!"); err != nil {
		t.Errorf("CheckPassword(correct) error = %v", err)
	}
	if err := usr.CheckPassword("wr0ngPass!"); err == nil {
		t.Error("CheckPassword(wrong) expected an error")
	}
}
