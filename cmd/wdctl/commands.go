// Copyright 2013 Federico Sogaro. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"

	"github.com/fedesog/webdriver/v2"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the server status",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := newDriver().Status()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "ready:   %v\n", st.Ready)
		if st.Message != "" {
			fmt.Fprintf(out, "message: %s\n", st.Message)
		}
		if st.Build.Version != "" {
			fmt.Fprintf(out, "build:   %s\n", st.Build.Version)
		}
		if st.OS.Name != "" {
			fmt.Fprintf(out, "os:      %s %s %s\n", st.OS.Name, st.OS.Version, st.OS.Arch)
		}
		return nil
	},
}

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List the active sessions (legacy servers only)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		sessions, err := newDriver().Sessions()
		if err != nil {
			return err
		}
		for _, s := range sessions {
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", s.ID(), s.Capabilities().BrowserName())
		}
		return nil
	},
}

var (
	shotNavigate string
	shotOut      string
)

var screenshotCmd = &cobra.Command{
	Use:   "screenshot",
	Short: "Save a PNG screenshot of a page",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession(shotNavigate)
		if err != nil {
			return err
		}
		defer s.Close()
		png, err := s.Screenshot()
		if err != nil {
			return err
		}
		if err := os.WriteFile(shotOut, png, 0644); err != nil {
			return err
		}
		log.WithField("file", shotOut).Infof("saved %d bytes", len(png))
		return nil
	},
}

var (
	findUsing    string
	findValue    string
	findNavigate string
	findAll      bool
)

var findCmd = &cobra.Command{
	Use:   "find",
	Short: "Find elements and print their text",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		loc := webdriver.ElementLocator{Strategy: webdriver.FindElementStrategy(findUsing), Value: findValue}
		s, err := newSession(findNavigate)
		if err != nil {
			return err
		}
		defer s.Close()
		var elements []*webdriver.Element
		if findAll {
			elements, err = s.FindElements(loc)
		} else {
			var e *webdriver.Element
			e, err = s.RequireElement(loc, "")
			elements = []*webdriver.Element{e}
		}
		if err != nil {
			return err
		}
		for _, e := range elements {
			text, err := e.Text()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", e.ID(), text)
		}
		return nil
	},
}

func init() {
	screenshotCmd.Flags().StringVar(&shotNavigate, "navigate", "", "URL to open first")
	screenshotCmd.Flags().StringVarP(&shotOut, "out", "o", "screenshot.png", "output file")

	findCmd.Flags().StringVar(&findUsing, "using", string(webdriver.CSSSelector), "locator strategy")
	findCmd.Flags().StringVar(&findValue, "value", "", "locator value")
	findCmd.Flags().StringVar(&findNavigate, "navigate", "", "URL to open first")
	findCmd.Flags().BoolVar(&findAll, "all", false, "print every match")
	findCmd.MarkFlagRequired("value")
}
