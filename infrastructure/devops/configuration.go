package devops

import (
	"context"
	"fmt"
	"strings"

	"ems.com/ems/utils"
	"gopkg.in/yaml.v3"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
)

type DBEntry struct {
	Name     string `yaml:"name" json:"name"`
	Host     string `yaml:"host" json:"host"`
	Username string `yaml:"username" json:"username"`
	Password string `yaml:"password" json:"password"`
	Database string `yaml:"database" json:"database"`
}

// GetDSN builds a go-sql-driver/mysql DSN. dbname overrides the entry's
// database when not empty.
func (db DBEntry) GetDSN(dbname string) string {
	// username:password@tcp(host:3306)/name?parseTime=true
	host := db.Host
	if !strings.Contains(host, ":") {
		host = host + ":3306"
	}
	if dbname == "" {
		dbname = db.Database
	}
	return fmt.Sprintf("%s:%s@tcp(%s)/%s?parseTime=true&loc=UTC", db.Username, db.Password, host, dbname)
}

// Parameters is the yaml document kept as a SecureString in SSM.
type Parameters struct {
	Databases     []DBEntry `yaml:"databases"`
	SigningSecret string    `yaml:"signingSecret"`
	SlackToken    string    `yaml:"slackToken"`
}

// Database finds the entry for an environment, ignoring case.
func (p *Parameters) Database(env string) (DBEntry, bool) {
	entry := utils.Find(p.Databases, func(e DBEntry) bool {
		return strings.EqualFold(e.Name, env)
	})
	if entry == nil {
		return DBEntry{}, false
	}
	return *entry, true
}

func ParseParameters(data []byte) (*Parameters, error) {
	var params Parameters
	if err := yaml.Unmarshal(data, &params); err != nil {
		return nil, fmt.Errorf("unmarshal yaml: %w", err)
	}
	return &params, nil
}

type ssmAPI interface {
	GetParameter(ctx context.Context, params *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error)
}

func NewSSMClient(ctx context.Context) (*ssm.Client, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return ssm.NewFromConfig(cfg), nil
}

// LoadParameters reads and decrypts the named parameter.
func LoadParameters(ctx context.Context, client ssmAPI, name string) (*Parameters, error) {
	out, err := client.GetParameter(ctx, &ssm.GetParameterInput{
		Name:           aws.String(name),
		WithDecryption: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("get parameter %s: %w", name, err)
	}
	if out.Parameter == nil || out.Parameter.Value == nil {
		return nil, fmt.Errorf("parameter %s is empty", name)
	}
	return ParseParameters([]byte(*out.Parameter.Value))
}
