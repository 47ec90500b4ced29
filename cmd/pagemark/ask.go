package main

import (
	"fmt"

	"github.com/pagemark/pagemark"
)

// Run executes the ask command.
func (c *AskCmd) Run(deps *Dependencies) error {
	if deps.Chat == nil {
		fmt.Fprintln(deps.Stderr, "GEMINI_API_KEY environment variable not set. Get an API key at https://aistudio.google.com/apikey")
		return pagemark.Errorf(pagemark.EUNAVAILABLE, "chat agent not configured")
	}

	_, contextDoc, err := deps.Pipe.ChatContext(deps.Ctx, c.URL)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", pagemark.ErrorMessage(err))
		return err
	}

	transcript := []pagemark.Message{
		{Role: pagemark.RoleUser, Content: c.Question},
	}
	reply, err := deps.Chat.Reply(deps.Ctx, transcript, contextDoc)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", pagemark.ErrorMessage(err))
		return err
	}

	fmt.Fprintln(deps.Stdout, reply)
	return nil
}
