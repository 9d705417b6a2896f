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

var rootCmd *cobra.Command = &cobra.Command{
	Use:   "root",
	Short: "Print the root and size of the committed tree",
	RunE:  runRoot,
}

func init() {
	Root.AddCommand(rootCmd)
}

func runRoot(cmd *cobra.Command, args []string) error {
	tree, closeF, err := cmdCtx.openTree()
	if err != nil {
		return err
	}
	defer closeF()

	root, err := tree.Root(false)
	if err != nil {
		return err
	}

	fmt.Printf("\n Root: %x\n Size: %d\n Depth: %d\n\n", root, tree.Size(false), tree.Depth())
	return nil
}
