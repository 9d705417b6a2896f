/*
   Copyright 2024 Vertree Contributors

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var commitCmd *cobra.Command = &cobra.Command{
	Use:   "commit",
	Short: "Flush any staged leaves to durable storage and print the root",
	RunE:  runCommit,
}

func init() {
	Root.AddCommand(commitCmd)
}

func runCommit(cmd *cobra.Command, args []string) error {
	tree, closeF, err := cmdCtx.openTree()
	if err != nil {
		return err
	}
	defer closeF()

	root, err := tree.Commit()
	if err != nil {
		return err
	}

	fmt.Printf("\n Root: %x\n Size: %d\n\n", root, tree.Size(false))
	return nil
}
