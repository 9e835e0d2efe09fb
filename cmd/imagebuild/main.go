package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"os/exec"

	"github.com/stagd/stagd"
	logging "github.com/stagd/stagd/logging/zerolog_adapter"
)

const serviceName = "imagebuild"

var (
	awsMode      = flag.Bool("aws", false, "authenticate against Amazon ECR instead of a plain registry")
	awsRegion    = flag.String("aws-region", "", "ECR region, default comes from the shared AWS config")
	contextPath  = flag.String("path", ".", "docker build context path")
	printVersion = flag.Bool("version", false, "Print version and exit")
)

// Stagd version, substituted at build time.
var (
	StagdVersion = "unknown"
	GitCommit    = "unknown"
	GoVersion    = "unknown"
)

// Usage: imagebuild [flags] [branch] [push]
// Defaults: branch "master", push "false". Any push value other than the
// literal "false" pushes both tags. Registry settings come from the
// BUILD_REGISTRY, BUILD_REPOSITORY, BUILD_USER and BUILD_PASSWORD
// environment variables; with -aws the registry and credentials come from
// an ECR authorization token instead.
func main() {
	flag.Parse()
	if *printVersion {
		fmt.Println("Stagd imagebuild")
		fmt.Println("Version:", StagdVersion)
		fmt.Println("Git Commit:", GitCommit)
		fmt.Println("Go Version:", GoVersion)
		os.Exit(0)
	}

	branch := "master"
	pushArg := "false"
	if args := flag.Args(); len(args) > 0 {
		branch = args[0]
		if len(args) > 1 {
			pushArg = args[1]
		}
	}

	logger, err := logging.ConfigureLog("stdout", "info", serviceName, true)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Can not configure log: %s\n", err.Error())
		os.Exit(1)
	}

	repository := os.Getenv("BUILD_REPOSITORY")
	if repository == "" {
		logger.Error().Msg("BUILD_REPOSITORY is not set")
		os.Exit(1)
	}

	var auth registryAuth
	if *awsMode {
		logger.Info().Msg("Running in AMAZON mode")
		auth, err = getECRAuth(*awsRegion)
		if err != nil {
			failStep(logger, err, "Failed to get ECR credentials")
		}
	} else {
		auth = registryAuth{
			Registry: os.Getenv("BUILD_REGISTRY"),
			Username: os.Getenv("BUILD_USER"),
			Password: os.Getenv("BUILD_PASSWORD"),
		}
	}

	builder := NewBuilder(logger)

	// Login comes first: nothing is built with bad credentials.
	if err = builder.Login(auth); err != nil {
		failStep(logger, err, "Failed to login to registry")
	}

	plan := buildPlan{
		Registry:   auth.Registry,
		Repository: repository,
		Branch:     branch,
		Push:       shouldPush(pushArg),
	}

	if err = builder.Build(plan, *contextPath); err != nil {
		failStep(logger, err, "Failed to build image")
	}

	if plan.Push {
		if err = builder.PushTags(plan); err != nil {
			failStep(logger, err, "Failed to push image")
		}
	} else {
		logger.Info().Msg("Push skipped")
	}

	logger.Info().Msg("Finished")
}

// failStep exits with the failing command's status when there is one.
func failStep(logger stagd.Logger, err error, message string) {
	logger.Error().
		Error(err).
		Msg(message)

	var exitError *exec.ExitError
	if errors.As(err, &exitError) {
		os.Exit(exitError.ExitCode())
	}
	os.Exit(1)
}
