/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package main

import (
	"context"
	_ "embed"
	"fmt"
	"log"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/mikeb26/stocksport-td/competition"
	"github.com/mikeb26/stocksport-td/document"
)

type StockSubCommand string

const (
	StockHelpCmd      StockSubCommand = "help"
	StockListCmd      StockSubCommand = "list"
	StockScheduleCmd  StockSubCommand = "schedule"
	StockNextCmd      StockSubCommand = "next"
	StockStandingsCmd StockSubCommand = "standings"
)

var stockSubCmdHdlrs = map[StockSubCommand]CmdHandler{
	StockHelpCmd:      stockHelpCmdHandler,
	StockListCmd:      stockListCmdHandler,
	StockScheduleCmd:  stockScheduleCmdHandler,
	StockNextCmd:      stockNextCmdHandler,
	StockStandingsCmd: stockStandingsCmdHandler,
}

func stockCmdHandler(ctx context.Context,
	inter *discordgo.Interaction) *discordgo.InteractionResponse {

	data := inter.ApplicationCommandData()
	hdlr := stockHelpCmdHandler
	if len(data.Options) > 0 {
		if subName := data.Options[0].Name; subName != "" {
			h, ok := stockSubCmdHdlrs[StockSubCommand(subName)]
			if ok {
				hdlr = h
			}
		}
	}
	return hdlr(ctx, inter)
}

func newResponse() *discordgo.InteractionResponse {
	return &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Flags: discordgo.MessageFlagsEphemeral,
		},
	}
}

//go:embed help.md
var helpText string

func stockHelpCmdHandler(ctx context.Context,
	inter *discordgo.Interaction) *discordgo.InteractionResponse {

	resp := newResponse()
	resp.Data.Content = truncateContent(helpText)
	return resp
}

func stockListCmdHandler(ctx context.Context,
	inter *discordgo.Interaction) *discordgo.InteractionResponse {

	resp := newResponse()
	names, err := store.List(ctx)
	if err != nil {
		resp.Data.Content = fmt.Sprintf("Error listing competitions: %v", err)
		log.Printf("discordbot.list: %v", resp.Data.Content)
		return resp
	}
	if len(names) == 0 {
		resp.Data.Content = "No competitions have been saved."
		return resp
	}

	var sb strings.Builder
	for _, name := range names {
		sb.WriteString(fmt.Sprintf("- %v\n", name))
	}
	sb.WriteString("\nRun /stock next <competition> to see the current matches\n")
	resp.Data.Content = truncateContent(sb.String())

	return resp
}

// competitionArgs holds the options shared by the competition subcommands.
type competitionArgs struct {
	name      string
	group     int64
	broadcast bool
}

func parseCompetitionArgs(inter *discordgo.Interaction) competitionArgs {
	var args competitionArgs
	data := inter.ApplicationCommandData()
	if len(data.Options) == 0 {
		return args
	}
	for _, opt := range data.Options[0].Options {
		if opt.Name == "competition" {
			args.name = strings.TrimSpace(opt.StringValue())
		} else if opt.Name == "group" {
			args.group = opt.IntValue()
		} else if opt.Name == "broadcast" {
			args.broadcast = opt.BoolValue()
		}
	}

	return args
}

// groupReportFunc renders one group of a loaded competition.
type groupReportFunc func(c *competition.Competition, groupIdx int) (string, error)

// competitionReport loads the named competition and renders the requested
// group, or every group when none is given, inside a code block.
func competitionReport(ctx context.Context, inter *discordgo.Interaction,
	cmd StockSubCommand, report groupReportFunc) *discordgo.InteractionResponse {

	resp := newResponse()
	args := parseCompetitionArgs(inter)
	if args.name == "" {
		resp.Data.Content = "Please provide a competition name."
		log.Printf("discordbot.%v: %v", cmd, resp.Data.Content)
		return resp
	}

	c, err := document.LoadCompetition(ctx, store, args.name)
	if err != nil {
		resp.Data.Content = fmt.Sprintf("Error loading competition %v: %v",
			args.name, err)
		log.Printf("discordbot.%v: %v", cmd, resp.Data.Content)
		return resp
	}

	var groups []int
	if args.group == 0 {
		for idx := range c.Groups {
			groups = append(groups, idx)
		}
	} else if args.group < 0 || args.group > int64(len(c.Groups)) {
		resp.Data.Content = fmt.Sprintf("Competition %v has %v groups; %v is not one of them.",
			args.name, len(c.Groups), args.group)
		return resp
	} else {
		groups = []int{int(args.group) - 1}
	}

	var sb strings.Builder
	for _, idx := range groups {
		text, err := report(c, idx)
		if err != nil {
			resp.Data.Content = fmt.Sprintf("Error building %v for %v: %v",
				cmd, args.name, err)
			log.Printf("discordbot.%v: %v", cmd, resp.Data.Content)
			return resp
		}
		sb.WriteString(text)
		sb.WriteString("\n")
	}
	resp.Data.Content = fmt.Sprintf("```\n%s```", truncateContent(sb.String()))

	if args.broadcast {
		resp.Data.Flags = 0
	}

	return resp
}

func stockScheduleCmdHandler(ctx context.Context,
	inter *discordgo.Interaction) *discordgo.InteractionResponse {

	return competitionReport(ctx, inter, StockScheduleCmd,
		func(c *competition.Competition, groupIdx int) (string, error) {
			return competition.BuildScheduleOutput(c.Groups[groupIdx]), nil
		})
}

func stockNextCmdHandler(ctx context.Context,
	inter *discordgo.Interaction) *discordgo.InteractionResponse {

	return competitionReport(ctx, inter, StockNextCmd,
		func(c *competition.Competition, groupIdx int) (string, error) {
			return competition.BuildNextMatchesOutput(c.Groups[groupIdx]), nil
		})
}

func stockStandingsCmdHandler(ctx context.Context,
	inter *discordgo.Interaction) *discordgo.InteractionResponse {

	return competitionReport(ctx, inter, StockStandingsCmd,
		func(c *competition.Competition, groupIdx int) (string, error) {
			entries, err := c.Standings(groupIdx)
			if err != nil {
				return "", err
			}
			return competition.BuildStandingsOutput(c.Groups[groupIdx],
				entries), nil
		})
}

// https://discord.com/developers/docs/resources/channel#start-thread-in-forum-or-media-channel-forum-and-media-thread-message-params-object
// limits messages to 2k characters
func truncateContent(s string) string {
	const MsgLimit = 1988 // keep space for newlines and markdown
	runes := []rune(s)
	if len(runes) > MsgLimit {
		s = fmt.Sprintf("%v...", string(runes[:MsgLimit]))
	}
	return s
}
