package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"marquee/internal/content"
	"marquee/internal/editorial"
)

func newGenerateCommand(ctx *commandContext) *cobra.Command {
	var imageURL string
	var asJSON bool
	var draft bool
	var publish bool
	var authorID string
	var categoryID string

	cmd := &cobra.Command{
		Use:   "generate <topic>",
		Short: "Generate an article for a topic, optionally creating a CMS draft",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			services, err := buildServices(cfg, logger)
			if err != nil {
				return err
			}

			topic := strings.Join(args, " ")
			result, err := services.editorial.Generate(cmd.Context(), topic, imageURL)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if !draft && !publish {
				if asJSON {
					encoder := json.NewEncoder(out)
					encoder.SetIndent("", "  ")
					return encoder.Encode(result)
				}
				fmt.Fprintf(out, "Title:    %s\n", result.Title)
				fmt.Fprintf(out, "Subtitle: %s\n", result.Subtitle)
				fmt.Fprintf(out, "Reading:  %d min\n", content.ReadingTimeMinutes(result.Body))
				if result.FeaturedImage != nil {
					fmt.Fprintf(out, "Image:    %s\n", result.FeaturedImage.URL)
				}
				fmt.Fprintf(out, "\n%s\n", result.Body)
				return nil
			}

			created, err := services.editorial.CreateDraft(cmd.Context(), editorial.DraftRequest{
				Title:         result.Title,
				Subtitle:      result.Subtitle,
				Body:          result.Body,
				AuthorID:      authorID,
				CategoryID:    categoryID,
				FeaturedImage: result.FeaturedImage,
				Publish:       publish,
			})
			if err != nil {
				return err
			}

			if asJSON {
				encoder := json.NewEncoder(out)
				encoder.SetIndent("", "  ")
				return encoder.Encode(struct {
					Content *editorial.GeneratedContent `json:"content"`
					Draft   *editorial.Draft            `json:"draft"`
				}{result, created})
			}

			fmt.Fprintf(out, "Title:   %s\n", result.Title)
			fmt.Fprintf(out, "Item ID: %s\n", created.ItemID)
			fmt.Fprintf(out, "Slug:    %s\n", created.Slug)
			if created.Published {
				fmt.Fprintln(out, "Status:  published")
			} else {
				fmt.Fprintln(out, "Status:  draft")
			}
			if created.PublishWarning != "" {
				fmt.Fprintf(out, "Warning: %s\n", created.PublishWarning)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&imageURL, "image", "", "Featured image URL to upload instead of a stock photo")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit the result as JSON")
	cmd.Flags().BoolVar(&draft, "draft", false, "Create a CMS draft from the generated article")
	cmd.Flags().BoolVar(&publish, "publish", false, "Create the CMS item and publish it immediately")
	cmd.Flags().StringVar(&authorID, "author", "", "Author item ID for the draft")
	cmd.Flags().StringVar(&categoryID, "category", "", "Category item ID for the draft")
	return cmd
}
