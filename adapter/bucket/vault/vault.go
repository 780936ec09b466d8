package vault

import (
	"bytes"
	"errors"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/glacier"
)

// vault archives primary documents into AWS Glacier for long term keeping.
// Retrieval is an offline batch job on the Glacier side, so GetObject is
// not served from here.
type vault struct {
	name   string
	client *glacier.Glacier
}

func New(awsSession *session.Session, name string) *vault {
	return &vault{client: glacier.New(awsSession), name: name}
}

func (v *vault) GetObject(key string) ([]byte, error) {
	return nil, errors.New("Vault archives are not readable synchronously")
}

func (v *vault) PutObject(key string, data []byte) error {
	input := &glacier.UploadArchiveInput{
		AccountId:          aws.String("-"),
		VaultName:          aws.String(v.name),
		ArchiveDescription: aws.String(key),
		Body:               bytes.NewReader(data),
	}
	_, err := v.client.UploadArchive(input)
	if err != nil {
		return err
	}
	return nil
}
