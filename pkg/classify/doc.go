// Package classify colors the article layer of a citation graph by
// self-citation.
//
// [Classify] runs three passes over layer-0 vertices:
//
//  1. Seed: articles with at least one author become type A (blue), the
//     rest type S (red).
//  2. Degrade: for every arc between two authored articles whose author
//     sets intersect, both endpoints become type B (yellow).
//  3. Roots: among B vertices, those without an arc to another B vertex
//     become type AB (green). They are the roots of self-citation chains.
//
// Author sets are normalized by [AuthorSet]. The passes overwrite the
// vertices' Type and Color, so running Classify twice on the same graph
// yields the same result.
package classify
