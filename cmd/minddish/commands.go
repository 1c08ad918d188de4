// Copyright 2025 The MindDish Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"fmt"

	"github.com/minddish/minddish/pkg/config"
	"github.com/minddish/minddish/pkg/runtime"
)

// AskCmd runs a single query turn and prints the answer.
type AskCmd struct {
	Text      string `arg:"" help:"The question to ask."`
	SessionID string `help:"Session id to continue a conversation."`
	WebSearch bool   `help:"Grant web search consent for this turn."`
}

func (c *AskCmd) Run(cli *CLI) error {
	cfg, err := loadConfig(cli.Config)
	if err != nil {
		return err
	}

	rt, err := runtime.New(cfg)
	if err != nil {
		return fmt.Errorf("failed to build runtime: %w", err)
	}
	defer rt.Close()

	response, err := rt.Controller.Ask(context.Background(), c.SessionID, c.Text, c.WebSearch)
	if err != nil {
		return err
	}

	fmt.Println(response.Text)
	if len(response.Citations) > 0 {
		fmt.Println("\nSources:")
		for _, cite := range response.Citations {
			title := cite.VideoTitle
			if title == "" {
				title = cite.VideoID
			}
			fmt.Printf("  - %s @ %ds (%s)\n", title, cite.Timestamp, cite.ChunkID)
		}
	}
	fmt.Printf("\nsession: %s\n", response.SessionID)
	return nil
}

// ValidateCmd validates a configuration file.
type ValidateCmd struct{}

func (c *ValidateCmd) Run(cli *CLI) error {
	if cli.Config == "" {
		return fmt.Errorf("--config is required for validate")
	}

	if _, err := config.LoadFile(cli.Config); err != nil {
		return err
	}

	fmt.Printf("Configuration %s is valid\n", cli.Config)
	return nil
}
