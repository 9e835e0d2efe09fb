package main

import (
	"encoding/base64"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/ecr"

	"github.com/stagd/stagd"
)

// registryAuth is one set of container registry credentials.
type registryAuth struct {
	Registry string
	Username string
	Password string
}

// buildPlan is everything one build/push run needs.
type buildPlan struct {
	Registry   string
	Repository string
	Branch     string
	Push       bool
}

// imageTags returns the two tags every build carries: the bare repository
// name and repository:<branch>.
func (plan *buildPlan) imageTags() []string {
	base := plan.Repository
	if plan.Registry != "" {
		base = plan.Registry + "/" + plan.Repository
	}
	return []string{base, base + ":" + plan.Branch}
}

// shouldPush skips the push only for the literal string "false", the
// documented default of the second positional argument.
func shouldPush(pushArg string) bool {
	return pushArg != "false"
}

// decodeAuthorizationToken splits a base64 ECR token into credentials.
func decodeAuthorizationToken(token string) (string, string, error) {
	raw, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return "", "", fmt.Errorf("failed to decode authorization token: %w", err)
	}
	parts := strings.SplitN(string(raw), ":", 2)
	if len(parts) != 2 {
		return "", "", fmt.Errorf("authorization token has no user:password separator")
	}
	return parts[0], parts[1], nil
}

// getECRAuth exchanges AWS credentials for docker registry credentials.
func getECRAuth(region string) (registryAuth, error) {
	config := aws.NewConfig()
	if region != "" {
		config = config.WithRegion(region)
	}

	awsSession, err := session.NewSessionWithOptions(session.Options{SharedConfigState: session.SharedConfigEnable})
	if err != nil {
		return registryAuth{}, fmt.Errorf("failed to create aws session: %w", err)
	}

	response, err := ecr.New(awsSession, config).GetAuthorizationToken(&ecr.GetAuthorizationTokenInput{})
	if err != nil {
		return registryAuth{}, fmt.Errorf("failed to get ECR authorization token: %w", err)
	}
	if len(response.AuthorizationData) == 0 {
		return registryAuth{}, fmt.Errorf("ECR returned no authorization data")
	}

	authorizationData := response.AuthorizationData[0]
	user, password, err := decodeAuthorizationToken(aws.StringValue(authorizationData.AuthorizationToken))
	if err != nil {
		return registryAuth{}, err
	}

	return registryAuth{
		Registry: strings.TrimPrefix(aws.StringValue(authorizationData.ProxyEndpoint), "https://"),
		Username: user,
		Password: password,
	}, nil
}

type commandRunner func(name string, args ...string) error

// Builder drives the docker CLI for one build/push run.
type Builder struct {
	logger stagd.Logger
	run    commandRunner
}

func NewBuilder(logger stagd.Logger) *Builder {
	return &Builder{
		logger: logger,
		run:    runCommand,
	}
}

func runCommand(name string, args ...string) error {
	command := exec.Command(name, args...)
	command.Stdout = os.Stdout
	command.Stderr = os.Stderr
	return command.Run()
}

func (builder *Builder) Login(auth registryAuth) error {
	builder.logger.Info().
		String("registry", auth.Registry).
		String("user", auth.Username).
		Msg("Logging in to registry")
	return builder.run("docker", "login", "--username", auth.Username, "--password", auth.Password, auth.Registry)
}

func (builder *Builder) Build(plan buildPlan, contextPath string) error {
	args := []string{"build", "--pull", "--rm"}
	for _, tag := range plan.imageTags() {
		args = append(args, "--tag", tag)
	}
	args = append(args, contextPath)

	builder.logger.Info().
		String("tags", strings.Join(plan.imageTags(), ", ")).
		Msg("Building image")
	return builder.run("docker", args...)
}

func (builder *Builder) PushTags(plan buildPlan) error {
	for _, tag := range plan.imageTags() {
		builder.logger.Info().
			String("tag", tag).
			Msg("Pushing image")
		if err := builder.run("docker", "push", tag); err != nil {
			return fmt.Errorf("failed to push %s: %w", tag, err)
		}
	}
	return nil
}
